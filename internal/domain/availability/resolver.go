// Package availability derives the bookable slots of a doctor's day from
// three record kinds: the weekly recurring template, one-off leave entries,
// and already-booked appointments. The derivation is pure computation over
// a snapshot of rows; it never writes and holds no state. The result is
// advisory: a concurrent booking may take a slot between the read and the
// caller's write, so the write path revalidates.
package availability

import (
	"github.com/clinicdesk/clinicdesk-api/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
)

// DefaultSlotMins is the fallback slot length when a doctor record
// carries none.
const DefaultSlotMins = 30

// DefaultMidday is the boundary splitting half-day leaves when no
// clinic-level override is configured.
const DefaultMidday = schedule.TimeOfDay(12 * 60)

// DayInput is the snapshot a single day's derivation runs over.
// Schedule and Leave are nil when no row exists; a nil Schedule means
// the day is off, the same as an IsAvailable=false row.
type DayInput struct {
	Schedule     *schedule.WeeklySchedule
	Leave        *schedule.LeaveEntry
	Appointments []*appointment.Appointment
	SlotMins     int
	Midday       schedule.TimeOfDay
}

// ComputeDaySlots returns the still-bookable slots of one day in
// ascending order. An empty result is a normal outcome (day off, full-day
// leave, fully booked), never an error.
func ComputeDaySlots(in DayInput) []Slot {
	if in.Schedule == nil || !in.Schedule.IsAvailable {
		return nil
	}

	slotMins := in.SlotMins
	if slotMins <= 0 {
		slotMins = DefaultSlotMins
	}
	midday := in.Midday
	if !midday.Valid() {
		midday = DefaultMidday
	}

	start, end := in.Schedule.StartTime, in.Schedule.EndTime

	// Half-day leaves clamp the working window at the midday boundary.
	// The boundary is a clinic setting, independent of the doctor's own
	// break window.
	if in.Leave != nil {
		switch in.Leave.LeaveType {
		case schedule.LeaveFullDay:
			return nil
		case schedule.LeaveHalfDayMorning:
			if midday > start {
				start = midday
			}
		case schedule.LeaveHalfDayEvening:
			if midday < end {
				end = midday
			}
		}
	}

	slots := partition(start, end, slotMins)

	if in.Schedule.HasBreak() {
		slots = dropOverlapping(slots, *in.Schedule.BreakStart, *in.Schedule.BreakEnd)
	}

	if len(in.Appointments) > 0 {
		slots = dropOccupied(slots, in.Appointments)
	}

	return slots
}

// partition splits [start, end) into consecutive slots of slotMins
// minutes beginning exactly at start. A trailing remainder shorter than
// one slot is dropped.
func partition(start, end schedule.TimeOfDay, slotMins int) []Slot {
	if start >= end {
		return nil
	}
	slots := make([]Slot, 0, int(end-start)/slotMins)
	for cur := start; cur.Add(slotMins) <= end; cur = cur.Add(slotMins) {
		slots = append(slots, Slot{Start: cur, End: cur.Add(slotMins)})
	}
	return slots
}

func dropOverlapping(slots []Slot, breakStart, breakEnd schedule.TimeOfDay) []Slot {
	kept := slots[:0]
	for _, s := range slots {
		if !s.Overlaps(breakStart, breakEnd) {
			kept = append(kept, s)
		}
	}
	return kept
}

// dropOccupied removes slots whose start matches an occupying
// appointment. Several appointments at the same time, which the write
// path should have prevented, still remove the slot exactly once.
func dropOccupied(slots []Slot, appts []*appointment.Appointment) []Slot {
	occupied := make(map[schedule.TimeOfDay]struct{}, len(appts))
	for _, a := range appts {
		if a.Occupies() {
			occupied[a.StartTime] = struct{}{}
		}
	}
	if len(occupied) == 0 {
		return slots
	}
	kept := slots[:0]
	for _, s := range slots {
		if _, taken := occupied[s.Start]; !taken {
			kept = append(kept, s)
		}
	}
	return kept
}
