package schedule

import (
	"time"

	"github.com/google/uuid"
)

type LeaveType string

const (
	LeaveFullDay        LeaveType = "full_day"
	LeaveHalfDayMorning LeaveType = "half_day_morning"
	LeaveHalfDayEvening LeaveType = "half_day_evening"
)

func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveFullDay, LeaveHalfDayMorning, LeaveHalfDayEvening:
		return true
	}
	return false
}

// LeaveEntry removes or shrinks a doctor's availability on one calendar
// date. At most one active entry may exist per doctor and date; edits are
// delete-and-recreate, never update-in-place.
type LeaveEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index:idx_leaves_doctor_date"`
	LeaveDate time.Time `gorm:"column:leave_date;type:date;not null;index:idx_leaves_doctor_date"`
	LeaveType LeaveType `gorm:"column:leave_type;type:varchar(30);not null"`
	Reason    string    `gorm:"column:reason;type:text"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (LeaveEntry) TableName() string {
	return "clinical.leave_entries"
}

type CreateLeaveCommand struct {
	DoctorID  uuid.UUID
	LeaveDate time.Time
	LeaveType LeaveType
	Reason    string
	CreatedBy uuid.UUID
}

type ListLeavesQuery struct {
	DoctorID uuid.UUID
	From     time.Time
	To       time.Time
}

// DateOnly truncates a timestamp to its calendar date in UTC. Leave dates
// and appointment dates compare by day, never by instant.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
