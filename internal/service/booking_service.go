package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk-api/internal/domain"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
	"github.com/clinicdesk/clinicdesk-api/internal/notification"
	"github.com/clinicdesk/clinicdesk-api/pkg/metrics"
)

type BookingService struct {
	repo         appointment.Repository
	availability *AvailabilityService
	auditSvc     *AuditService
	notifier     *notification.Dispatcher
	metrics      *metrics.Collector // optional
	log          *zap.Logger
}

func NewBookingService(
	repo appointment.Repository,
	availability *AvailabilityService,
	auditSvc *AuditService,
	notifier *notification.Dispatcher,
	collector *metrics.Collector,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:         repo,
		availability: availability,
		auditSvc:     auditSvc,
		notifier:     notifier,
		metrics:      collector,
		log:          log,
	}
}

// BookAppointment books a slot for a patient. The slot list a caller saw
// is advisory, so the slot is revalidated here and the insert is still
// guarded by the store's uniqueness constraint; two receptionists racing
// for the same slot resolve to one booking and one conflict error.
func (s *BookingService) BookAppointment(
	ctx context.Context,
	cmd *appointment.CreateAppointmentCommand,
	callerID uuid.UUID,
	callerRole string,
	ip string,
) (*appointment.Appointment, error) {
	if cmd.Source == "" {
		cmd.Source = appointment.SourceOnline
	}
	if !cmd.Source.IsValid() {
		return nil, appointment.ErrInvalidSource
	}
	if schedule.DateOnly(cmd.AppointmentDate).Before(schedule.DateOnly(time.Now())) {
		return nil, appointment.ErrScheduledInPast
	}

	open, durationMins, err := s.availability.IsSlotOpen(ctx, cmd.DoctorID, cmd.AppointmentDate, cmd.StartTime)
	if err != nil {
		return nil, fmt.Errorf("revalidating slot: %w", err)
	}
	if !open {
		return nil, appointment.ErrSlotNotAvailable
	}

	a := &appointment.Appointment{
		PatientID:       cmd.PatientID,
		DoctorID:        cmd.DoctorID,
		AppointmentDate: schedule.DateOnly(cmd.AppointmentDate),
		StartTime:       cmd.StartTime,
		DurationMins:    durationMins,
		Source:          cmd.Source,
		Status:          appointment.StatusScheduled,
		Reason:          cmd.Reason,
		Notes:           cmd.Notes,
		ContactEmail:    cmd.ContactEmail,
		ContactPhone:    cmd.ContactPhone,
		CreatedBy:       cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.countBooking(appointment.StatusScheduled)
	s.notify(notification.KindBookingConfirmed, a)

	return a, nil
}

func (s *BookingService) GetAppointment(ctx context.Context, id uuid.UUID, callerRole string, callerDoctorID *uuid.UUID) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Doctors can only see their own appointments.
	if domain.Role(callerRole) == domain.RoleDoctor {
		if callerDoctorID == nil || *callerDoctorID != a.DoctorID {
			return nil, ErrForbidden
		}
	}
	return a, nil
}

func (s *BookingService) CancelAppointment(ctx context.Context, id uuid.UUID, cmd *appointment.CancelAppointmentCommand, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.Cancel(cmd.Reason, cmd.CancelledBy); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"cancelled","reason":%q}`, cmd.Reason),
	})

	s.countBooking(appointment.StatusCancelled)
	s.notify(notification.KindBookingCancelled, a)

	return a, nil
}

func (s *BookingService) CompleteAppointment(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Complete(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: `{"status":"completed"}`,
	})

	s.countBooking(appointment.StatusCompleted)
	return a, nil
}

func (s *BookingService) MarkNoShow(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.MarkNoShow(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "appointment", ResourceID: id.String(), IPAddress: ip,
		Changes: `{"status":"no_show"}`,
	})

	s.countBooking(appointment.StatusNoShow)
	return a, nil
}

func (s *BookingService) ListAppointments(ctx context.Context, q *appointment.ListAppointmentsQuery, callerRole string, callerDoctorID *uuid.UUID) (*appointment.PagedAppointments, error) {
	// Doctors can only list their own appointments.
	if domain.Role(callerRole) == domain.RoleDoctor && callerDoctorID != nil {
		q.DoctorID = callerDoctorID
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.repo.List(ctx, q)
}

func (s *BookingService) countBooking(status appointment.Status) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(string(status)).Inc()
	}
}

func (s *BookingService) notify(kind notification.Kind, a *appointment.Appointment) {
	if a.ContactEmail == "" && a.ContactPhone == "" {
		return
	}
	recipient := a.ContactEmail
	if recipient == "" {
		recipient = a.ContactPhone
	}
	s.notifier.Dispatch(notification.Message{
		Kind:      kind,
		Recipient: recipient,
		Payload: map[string]any{
			"appointment_id": a.ID.String(),
			"doctor_id":      a.DoctorID.String(),
			"date":           a.AppointmentDate.Format("2006-01-02"),
			"start_time":     a.StartTime.String(),
		},
	})
}
