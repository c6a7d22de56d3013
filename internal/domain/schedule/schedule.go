package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeOfDay is a clinic-local wall-clock time expressed as minutes since
// midnight. Schedules carry no timezone; a clinic's 09:00 is 09:00 wherever
// the clinic is.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay parses a wall-clock time in "HH:MM" 24-hour form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parsing time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

func (t TimeOfDay) Add(mins int) TimeOfDay {
	return t + TimeOfDay(mins)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Weekday follows the 0=Sunday..6=Saturday convention, matching
// time.Weekday. Stored rows use the same numbering.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func (w Weekday) IsValid() bool {
	return w >= Sunday && w <= Saturday
}

// WeekdayOf returns the weekday of a calendar date.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday())
}

// WeeklySchedule is one doctor's recurring template for a single weekday.
// A doctor is expected to have at most one row per weekday; a missing row
// means the day is off, the same as IsAvailable=false.
type WeeklySchedule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;uniqueIndex:uq_schedule_doctor_day"`
	DayOfWeek Weekday   `gorm:"column:day_of_week;type:smallint;not null;uniqueIndex:uq_schedule_doctor_day"`

	IsAvailable bool `gorm:"column:is_available;not null;default:false"`

	// Minutes since midnight, clinic-local.
	StartTime TimeOfDay `gorm:"column:start_time;type:smallint;not null;default:0"`
	EndTime   TimeOfDay `gorm:"column:end_time;type:smallint;not null;default:0"`

	BreakStart *TimeOfDay `gorm:"column:break_start;type:smallint"`
	BreakEnd   *TimeOfDay `gorm:"column:break_end;type:smallint"`
}

func (WeeklySchedule) TableName() string {
	return "clinical.weekly_schedules"
}

// HasBreak reports whether the day carries a configured break window.
// A row with only one of the two bounds set is treated as having none.
func (ws *WeeklySchedule) HasBreak() bool {
	return ws.BreakStart != nil && ws.BreakEnd != nil
}

// Validate enforces the template invariants for an available day:
// start < end, and when a break is present, start <= break_start <
// break_end <= end. Days marked unavailable carry no constraints.
func (ws *WeeklySchedule) Validate() error {
	if !ws.DayOfWeek.IsValid() {
		return ErrInvalidWeekday
	}
	if !ws.IsAvailable {
		return nil
	}
	if !ws.StartTime.Valid() || !ws.EndTime.Valid() {
		return ErrInvalidTimeOfDay
	}
	if ws.StartTime >= ws.EndTime {
		return ErrWindowInverted
	}
	if ws.BreakStart == nil && ws.BreakEnd == nil {
		return nil
	}
	if !ws.HasBreak() {
		return ErrBreakIncomplete
	}
	if *ws.BreakStart < ws.StartTime || *ws.BreakStart >= *ws.BreakEnd || *ws.BreakEnd > ws.EndTime {
		return ErrBreakOutsideWindow
	}
	return nil
}

// DayTemplate is the write-side shape for one weekday of the template.
type DayTemplate struct {
	DayOfWeek   Weekday
	IsAvailable bool
	StartTime   TimeOfDay
	EndTime     TimeOfDay
	BreakStart  *TimeOfDay
	BreakEnd    *TimeOfDay
}

// UpsertWeekCommand replaces a doctor's weekly template. Only the current
// template matters; history is not kept.
type UpsertWeekCommand struct {
	DoctorID  uuid.UUID
	Days      []DayTemplate
	UpdatedBy uuid.UUID
}
