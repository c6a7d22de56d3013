package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// GetForDay returns the doctor's template row for one weekday, or
	// (nil, nil) when no row exists. Absence is data, not an error: the
	// resolver treats a missing row as a day off.
	GetForDay(ctx context.Context, doctorID uuid.UUID, day Weekday) (*WeeklySchedule, error)

	// GetWeek returns every template row for a doctor, ordered by weekday.
	GetWeek(ctx context.Context, doctorID uuid.UUID) ([]*WeeklySchedule, error)

	// UpsertWeek replaces the doctor's weekly template atomically.
	UpsertWeek(ctx context.Context, cmd *UpsertWeekCommand) ([]*WeeklySchedule, error)

	// GetLeave returns the active leave entry for a date, or (nil, nil)
	// when there is none. If duplicate rows exist the earliest-created one
	// is returned; duplicates are a write-path defect, not a read error.
	GetLeave(ctx context.Context, doctorID uuid.UUID, date time.Time) (*LeaveEntry, error)

	// ListLeaves returns leave entries in [From, To] ordered by date.
	ListLeaves(ctx context.Context, q *ListLeavesQuery) ([]*LeaveEntry, error)

	// CreateLeave persists a new leave entry. Returns ErrLeaveAlreadyExists
	// when an active entry for the same doctor and date exists.
	CreateLeave(ctx context.Context, e *LeaveEntry) error

	// DeleteLeave removes a leave entry. Returns ErrLeaveNotFound when the
	// entry does not exist.
	DeleteLeave(ctx context.Context, id uuid.UUID) error
}
