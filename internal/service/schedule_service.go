package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/doctor"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
	"github.com/clinicdesk/clinicdesk-api/internal/notification"
	"github.com/clinicdesk/clinicdesk-api/pkg/metrics"
)

type ScheduleService struct {
	repo       schedule.Repository
	doctorRepo doctor.Repository
	auditSvc   *AuditService
	notifier   *notification.Dispatcher
	metrics    *metrics.Collector // optional
	log        *zap.Logger
}

func NewScheduleService(
	repo schedule.Repository,
	doctorRepo doctor.Repository,
	auditSvc *AuditService,
	notifier *notification.Dispatcher,
	collector *metrics.Collector,
	log *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		repo:       repo,
		doctorRepo: doctorRepo,
		auditSvc:   auditSvc,
		notifier:   notifier,
		metrics:    collector,
		log:        log,
	}
}

// UpsertWeeklyTemplate replaces a doctor's recurring template. Every row
// must pass the window invariants before anything is written.
func (s *ScheduleService) UpsertWeeklyTemplate(ctx context.Context, cmd *schedule.UpsertWeekCommand, callerID uuid.UUID, callerRole string, ip string) ([]*schedule.WeeklySchedule, error) {
	d, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, err
	}

	var fields []string
	seen := make(map[schedule.Weekday]bool, len(cmd.Days))
	for _, day := range cmd.Days {
		if seen[day.DayOfWeek] {
			return nil, schedule.ErrDuplicateDay
		}
		seen[day.DayOfWeek] = true

		row := schedule.WeeklySchedule{
			DayOfWeek:   day.DayOfWeek,
			IsAvailable: day.IsAvailable,
			StartTime:   day.StartTime,
			EndTime:     day.EndTime,
			BreakStart:  day.BreakStart,
			BreakEnd:    day.BreakEnd,
		}
		if err := row.Validate(); err != nil {
			fields = append(fields, fmt.Sprintf("day %d: %v", day.DayOfWeek, err))
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	rows, err := s.repo.UpsertWeek(ctx, cmd)
	if err != nil {
		s.log.Error("failed to upsert weekly template", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "weekly_schedule",
		ResourceID:   cmd.DoctorID.String(),
		IPAddress:    ip,
	})

	if d.Email != "" {
		s.notifier.Dispatch(notification.Message{
			Kind:      notification.KindScheduleUpdated,
			Recipient: d.Email,
			Payload:   map[string]any{"doctor_id": d.ID.String()},
		})
	}

	return rows, nil
}

func (s *ScheduleService) GetWeeklyTemplate(ctx context.Context, doctorID uuid.UUID) ([]*schedule.WeeklySchedule, error) {
	if _, err := s.doctorRepo.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.repo.GetWeek(ctx, doctorID)
}

// CreateLeave records a one-off leave entry. At most one active entry may
// exist per doctor and date; the store's uniqueness constraint is the
// final arbiter under concurrent creates.
func (s *ScheduleService) CreateLeave(ctx context.Context, cmd *schedule.CreateLeaveCommand, callerID uuid.UUID, callerRole string, ip string) (*schedule.LeaveEntry, error) {
	if !cmd.LeaveType.IsValid() {
		return nil, schedule.ErrInvalidLeaveType
	}

	d, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, err
	}

	e := &schedule.LeaveEntry{
		DoctorID:  cmd.DoctorID,
		LeaveDate: schedule.DateOnly(cmd.LeaveDate),
		LeaveType: cmd.LeaveType,
		Reason:    cmd.Reason,
		CreatedBy: cmd.CreatedBy,
	}

	if err := s.repo.CreateLeave(ctx, e); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.LeavesCreatedTotal.WithLabelValues(string(e.LeaveType)).Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "leave_entry",
		ResourceID:   e.ID.String(),
		IPAddress:    ip,
	})

	if d.Email != "" {
		s.notifier.Dispatch(notification.Message{
			Kind:      notification.KindLeaveRecorded,
			Recipient: d.Email,
			Payload: map[string]any{
				"doctor_id":  d.ID.String(),
				"leave_date": e.LeaveDate.Format("2006-01-02"),
				"leave_type": string(e.LeaveType),
			},
		})
	}

	return e, nil
}

// CancelLeave removes a leave entry. Edits are delete-and-recreate; there
// is no update-in-place.
func (s *ScheduleService) CancelLeave(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if err := s.repo.DeleteLeave(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "delete",
		ResourceType: "leave_entry",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})
	return nil
}

func (s *ScheduleService) ListLeaves(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*schedule.LeaveEntry, error) {
	if _, err := s.doctorRepo.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, &ValidationError{Fields: []string{"to must not precede from"}}
	}
	return s.repo.ListLeaves(ctx, &schedule.ListLeavesQuery{DoctorID: doctorID, From: from, To: to})
}
