package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	a.AppointmentDate = schedule.DateOnly(a.AppointmentDate)
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		// The partial unique index on (doctor_id, appointment_date,
		// start_time) for occupying statuses is the double-booking gate.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appointment.ErrAppointmentConflict
		}
		return storeErr("creating appointment", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, storeErr("fetching appointment", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	tx := r.db.WithContext(ctx).Model(&appointment.Appointment{}).Where("deleted_at IS NULL")

	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		tx = tx.Where("appointment_date >= ?", schedule.DateOnly(*q.DateFrom))
	}
	if q.DateTo != nil {
		tx = tx.Where("appointment_date <= ?", schedule.DateOnly(*q.DateTo))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, storeErr("counting appointments", err)
	}

	var appts []*appointment.Appointment
	err := tx.Order("appointment_date, start_time").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&appts).Error
	if err != nil {
		return nil, storeErr("listing appointments", err)
	}

	totalPages := int(total) / q.PageSize
	if int(total)%q.PageSize != 0 {
		totalPages++
	}

	return &appointment.PagedAppointments{
		Appointments: appts,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages,
	}, nil
}

func (r *AppointmentRepository) ListForDay(ctx context.Context, doctorID uuid.UUID, date time.Time, statuses []appointment.Status) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	tx := r.db.WithContext(ctx).
		Where("doctor_id = ? AND appointment_date = ? AND deleted_at IS NULL",
			doctorID, schedule.DateOnly(date))
	if len(statuses) > 0 {
		tx = tx.Where("status IN ?", statuses)
	}
	if err := tx.Order("start_time").Find(&appts).Error; err != nil {
		return nil, storeErr("listing day appointments", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Select("status", "cancelled_at", "cancellation_reason", "cancelled_by", "completed_at").
		Updates(a).Error
	if err != nil {
		return storeErr("updating appointment status", err)
	}
	return nil
}

func (r *AppointmentRepository) HasConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, start schedule.TimeOfDay, excludeID *uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND start_time = ? AND status IN ? AND deleted_at IS NULL",
			doctorID, schedule.DateOnly(date), start, appointment.OccupiedStatuses())
	if excludeID != nil {
		tx = tx.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, storeErr("checking appointment conflict", err)
	}
	return count > 0, nil
}
