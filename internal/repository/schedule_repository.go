package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) GetForDay(ctx context.Context, doctorID uuid.UUID, day schedule.Weekday) (*schedule.WeeklySchedule, error) {
	var ws schedule.WeeklySchedule
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND day_of_week = ?", doctorID, day).
		First(&ws).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No template row: the day is off. Absence is data here.
			return nil, nil
		}
		return nil, storeErr("fetching weekly schedule", err)
	}
	return &ws, nil
}

func (r *ScheduleRepository) GetWeek(ctx context.Context, doctorID uuid.UUID) ([]*schedule.WeeklySchedule, error) {
	var week []*schedule.WeeklySchedule
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("day_of_week").
		Find(&week).Error
	if err != nil {
		return nil, storeErr("fetching weekly template", err)
	}
	return week, nil
}

// UpsertWeek replaces the doctor's template wholesale. The template is
// not versioned; only the current rows matter.
func (r *ScheduleRepository) UpsertWeek(ctx context.Context, cmd *schedule.UpsertWeekCommand) ([]*schedule.WeeklySchedule, error) {
	rows := make([]*schedule.WeeklySchedule, 0, len(cmd.Days))
	for _, day := range cmd.Days {
		rows = append(rows, &schedule.WeeklySchedule{
			DoctorID:    cmd.DoctorID,
			DayOfWeek:   day.DayOfWeek,
			IsAvailable: day.IsAvailable,
			StartTime:   day.StartTime,
			EndTime:     day.EndTime,
			BreakStart:  day.BreakStart,
			BreakEnd:    day.BreakEnd,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", cmd.DoctorID).
			Delete(&schedule.WeeklySchedule{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, storeErr("upserting weekly template", err)
	}
	return rows, nil
}

func (r *ScheduleRepository) GetLeave(ctx context.Context, doctorID uuid.UUID, date time.Time) (*schedule.LeaveEntry, error) {
	var e schedule.LeaveEntry
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND leave_date = ?", doctorID, schedule.DateOnly(date)).
		Order("created_at").
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeErr("fetching leave entry", err)
	}
	return &e, nil
}

func (r *ScheduleRepository) ListLeaves(ctx context.Context, q *schedule.ListLeavesQuery) ([]*schedule.LeaveEntry, error) {
	var entries []*schedule.LeaveEntry
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND leave_date BETWEEN ? AND ?",
			q.DoctorID, schedule.DateOnly(q.From), schedule.DateOnly(q.To)).
		Order("leave_date").
		Find(&entries).Error
	if err != nil {
		return nil, storeErr("listing leave entries", err)
	}
	return entries, nil
}

func (r *ScheduleRepository) CreateLeave(ctx context.Context, e *schedule.LeaveEntry) error {
	e.LeaveDate = schedule.DateOnly(e.LeaveDate)
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return schedule.ErrLeaveAlreadyExists
		}
		return storeErr("creating leave entry", err)
	}
	return nil
}

func (r *ScheduleRepository) DeleteLeave(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&schedule.LeaveEntry{}, "id = ?", id)
	if res.Error != nil {
		return storeErr("deleting leave entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return schedule.ErrLeaveNotFound
	}
	return nil
}
