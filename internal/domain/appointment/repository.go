package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, q *ListAppointmentsQuery) (*PagedAppointments, error)

	// ListForDay returns a doctor's appointments on one calendar date,
	// filtered to the given statuses, ordered by start time.
	ListForDay(ctx context.Context, doctorID uuid.UUID, date time.Time, statuses []Status) ([]*Appointment, error)

	// UpdateStatus persists a status transition already applied in memory.
	UpdateStatus(ctx context.Context, a *Appointment) error

	// HasConflict checks whether an occupying appointment already holds the
	// slot starting at start on date.
	HasConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, start schedule.TimeOfDay, excludeID *uuid.UUID) (bool, error)
}
