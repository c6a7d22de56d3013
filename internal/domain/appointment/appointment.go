package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
)

// Source records how the appointment entered the system.
type Source string

const (
	SourceOnline   Source = "online"
	SourceWalkIn   Source = "walk_in"
	SourceReferral Source = "referral"
)

func (s Source) IsValid() bool {
	switch s {
	case SourceOnline, SourceWalkIn, SourceReferral:
		return true
	}
	return false
}

// State transitions possibilities:
//
//	scheduled → completed
//	scheduled → cancelled
//	scheduled → no_show (if patient doesn't arrive)
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// OccupiedStatuses are the statuses under which an appointment holds its
// slot. Cancelled and no-show appointments free the slot.
func OccupiedStatuses() []Status {
	return []Status{StatusScheduled, StatusCompleted}
}

// Appointment is a booked occupation of one slot on a doctor's day.
// AppointmentDate is a calendar date; StartTime is the slot's clinic-local
// start. Together with DoctorID they identify the occupied slot.
type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	AppointmentDate time.Time          `gorm:"column:appointment_date;type:date;not null;index"`
	StartTime       schedule.TimeOfDay `gorm:"column:start_time;type:smallint;not null"`
	DurationMins    int                `gorm:"column:duration_mins;not null;default:30"`

	Source Source `gorm:"column:source;type:varchar(20);not null;default:'online';index"`
	Status Status `gorm:"column:status;type:varchar(30);not null;default:'scheduled';index"`

	Reason string `gorm:"column:reason;type:text"`
	Notes  string `gorm:"column:notes;type:text"`

	// Best-effort notification targets captured at booking time.
	ContactEmail string `gorm:"column:contact_email;type:varchar(255)"`
	ContactPhone string `gorm:"column:contact_phone;type:varchar(20)"`

	// Cancellation tracking
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason string     `gorm:"column:cancellation_reason;type:text"`
	CancelledBy        *uuid.UUID `gorm:"column:cancelled_by;type:uuid"`

	CompletedAt *time.Time `gorm:"column:completed_at"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

func (a *Appointment) EndTime() schedule.TimeOfDay {
	return a.StartTime.Add(a.DurationMins)
}

// Occupies reports whether the appointment currently holds its slot.
func (a *Appointment) Occupies() bool {
	return a.Status == StatusScheduled || a.Status == StatusCompleted
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
		StatusCompleted: {},
		StatusCancelled: {},
		StatusNoShow:    {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

func (a *Appointment) Cancel(reason string, cancelledBy uuid.UUID) error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = StatusCancelled
	a.CancelledAt = &now
	a.CancellationReason = reason
	a.CancelledBy = &cancelledBy
	return nil
}

func (a *Appointment) Complete() error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = StatusCompleted
	a.CompletedAt = &now
	return nil
}

func (a *Appointment) MarkNoShow() error {
	if !a.CanTransitionTo(StatusNoShow) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusNoShow
	return nil
}

type CreateAppointmentCommand struct {
	PatientID       uuid.UUID
	DoctorID        uuid.UUID
	AppointmentDate time.Time
	StartTime       schedule.TimeOfDay
	Source          Source
	Reason          string
	Notes           string
	ContactEmail    string
	ContactPhone    string
	CreatedBy       uuid.UUID
}

type CancelAppointmentCommand struct {
	Reason      string
	CancelledBy uuid.UUID
}

type ListAppointmentsQuery struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    *Status
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

type PagedAppointments struct {
	Appointments []*Appointment
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
}
