package availability

import (
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
)

// Slot is one bookable window on a doctor's day. Bounds are half-open:
// [Start, End). An appointment starting exactly at End belongs to the
// next slot.
type Slot struct {
	Start schedule.TimeOfDay `json:"start_time"`
	End   schedule.TimeOfDay `json:"end_time"`
}

// Overlaps reports whether the slot intersects the half-open window
// [from, to). A slot exactly abutting the window does not overlap it.
func (s Slot) Overlaps(from, to schedule.TimeOfDay) bool {
	return s.Start < to && s.End > from
}

// DaySummary is the per-date shape of a range query: how many slots
// remain bookable on each day of the range.
type DaySummary struct {
	Date      string `json:"date"` // YYYY-MM-DD
	DayOff    bool   `json:"day_off"`
	OpenSlots int    `json:"open_slots"`
	FirstSlot string `json:"first_slot,omitempty"`
}
