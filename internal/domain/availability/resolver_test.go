package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
)

// ---------- Helpers ----------

func at(h, m int) schedule.TimeOfDay {
	return schedule.TimeOfDay(h*60 + m)
}

func workday(start, end schedule.TimeOfDay) *schedule.WeeklySchedule {
	return &schedule.WeeklySchedule{
		DoctorID:    uuid.New(),
		DayOfWeek:   schedule.Monday,
		IsAvailable: true,
		StartTime:   start,
		EndTime:     end,
	}
}

func withBreak(ws *schedule.WeeklySchedule, start, end schedule.TimeOfDay) *schedule.WeeklySchedule {
	ws.BreakStart = &start
	ws.BreakEnd = &end
	return ws
}

func leave(t schedule.LeaveType) *schedule.LeaveEntry {
	return &schedule.LeaveEntry{
		DoctorID:  uuid.New(),
		LeaveDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		LeaveType: t,
	}
}

func appt(start schedule.TimeOfDay, status appointment.Status) *appointment.Appointment {
	return &appointment.Appointment{
		DoctorID:        uuid.New(),
		PatientID:       uuid.New(),
		AppointmentDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       start,
		DurationMins:    30,
		Status:          status,
	}
}

func starts(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Start.String()
	}
	return out
}

func contains(slots []Slot, start schedule.TimeOfDay) bool {
	for _, s := range slots {
		if s.Start == start {
			return true
		}
	}
	return false
}

// ---------- Day-off terminal outcomes ----------

func TestComputeDaySlots_UnavailableDay(t *testing.T) {
	ws := workday(at(9, 0), at(17, 0))
	ws.IsAvailable = false

	slots := ComputeDaySlots(DayInput{Schedule: ws, SlotMins: 30})
	if len(slots) != 0 {
		t.Errorf("expected no slots on an unavailable day, got %d", len(slots))
	}
}

func TestComputeDaySlots_MissingRowEqualsDayOff(t *testing.T) {
	// No template row and an explicit is_available=false row are the
	// same outcome: day off, not an error.
	slots := ComputeDaySlots(DayInput{Schedule: nil, SlotMins: 30})
	if len(slots) != 0 {
		t.Errorf("expected no slots with no template row, got %d", len(slots))
	}
}

func TestComputeDaySlots_FullDayLeave(t *testing.T) {
	in := DayInput{
		Schedule: workday(at(9, 0), at(17, 0)),
		Leave:    leave(schedule.LeaveFullDay),
		SlotMins: 30,
	}
	if slots := ComputeDaySlots(in); len(slots) != 0 {
		t.Errorf("expected no slots on full-day leave, got %v", starts(slots))
	}
}

// ---------- Partitioning ----------

func TestComputeDaySlots_MorningWindow(t *testing.T) {
	// Monday 09:00-12:00, 30 min slots, no break, no leave, no bookings.
	in := DayInput{
		Schedule: workday(at(9, 0), at(12, 0)),
		SlotMins: 30,
	}
	slots := ComputeDaySlots(in)

	want := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	got := starts(slots)
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d: expected start %s, got %s", i, want[i], got[i])
		}
	}
	last := slots[len(slots)-1]
	if last.End != at(12, 0) {
		t.Errorf("last slot must end exactly at 12:00, got %s", last.End)
	}
	for _, s := range slots {
		if s.End-s.Start != 30 {
			t.Errorf("slot %s-%s is not 30 minutes", s.Start, s.End)
		}
	}
}

func TestComputeDaySlots_TrailingRemainderDropped(t *testing.T) {
	// 09:00-10:15 with 30 min slots: the 10:00-10:15 remainder is not a slot.
	in := DayInput{
		Schedule: workday(at(9, 0), at(10, 15)),
		SlotMins: 30,
	}
	slots := ComputeDaySlots(in)
	if len(slots) != 2 {
		t.Fatalf("expected 2 full slots, got %d: %v", len(slots), starts(slots))
	}
	if slots[1].End != at(10, 0) {
		t.Errorf("expected last slot to end at 10:00, got %s", slots[1].End)
	}
}

func TestComputeDaySlots_DefaultSlotDuration(t *testing.T) {
	in := DayInput{
		Schedule: workday(at(9, 0), at(11, 0)),
		// SlotMins unset: falls back to 30.
	}
	if slots := ComputeDaySlots(in); len(slots) != 4 {
		t.Errorf("expected 4 default-length slots, got %d", len(slots))
	}
}

// ---------- Break window ----------

func TestComputeDaySlots_BreakWindowRemoved(t *testing.T) {
	// 09:00-17:00 with 13:00-14:00 break: 16 raw slots minus the 2
	// consumed by the break.
	in := DayInput{
		Schedule: withBreak(workday(at(9, 0), at(17, 0)), at(13, 0), at(14, 0)),
		SlotMins: 30,
	}
	slots := ComputeDaySlots(in)
	if len(slots) != 14 {
		t.Fatalf("expected 14 slots, got %d: %v", len(slots), starts(slots))
	}
	for _, s := range slots {
		if s.Overlaps(at(13, 0), at(14, 0)) {
			t.Errorf("slot %s-%s overlaps the break window", s.Start, s.End)
		}
	}
	// Slots abutting the break boundary are kept on both sides.
	if !contains(slots, at(12, 30)) {
		t.Error("slot ending exactly at break start must be kept")
	}
	if !contains(slots, at(14, 0)) {
		t.Error("slot starting exactly at break end must be kept")
	}
}

func TestComputeDaySlots_BreakStraddlingSlot(t *testing.T) {
	// A break not aligned to slot boundaries removes every slot it touches.
	in := DayInput{
		Schedule: withBreak(workday(at(9, 0), at(12, 0)), at(9, 45), at(10, 15)),
		SlotMins: 30,
	}
	slots := ComputeDaySlots(in)
	for _, banned := range []schedule.TimeOfDay{at(9, 30), at(10, 0)} {
		if contains(slots, banned) {
			t.Errorf("slot starting %s touches the break and must be dropped", banned)
		}
	}
	if !contains(slots, at(9, 0)) || !contains(slots, at(10, 30)) {
		t.Errorf("slots clear of the break must survive, got %v", starts(slots))
	}
}

// ---------- Half-day leave clamping ----------

func TestComputeDaySlots_HalfDayMorningLeave(t *testing.T) {
	in := DayInput{
		Schedule: workday(at(9, 0), at(17, 0)),
		Leave:    leave(schedule.LeaveHalfDayMorning),
		SlotMins: 30,
		Midday:   at(12, 0),
	}
	slots := ComputeDaySlots(in)
	if len(slots) == 0 {
		t.Fatal("expected afternoon slots to remain")
	}
	for _, s := range slots {
		if s.Start < at(12, 0) {
			t.Errorf("morning leave must remove slots before 12:00, found %s", s.Start)
		}
	}
	if slots[0].Start != at(12, 0) {
		t.Errorf("first remaining slot should start at 12:00, got %s", slots[0].Start)
	}
}

func TestComputeDaySlots_HalfDayEveningLeave(t *testing.T) {
	in := DayInput{
		Schedule: workday(at(9, 0), at(17, 0)),
		Leave:    leave(schedule.LeaveHalfDayEvening),
		SlotMins: 30,
		Midday:   at(12, 0),
	}
	slots := ComputeDaySlots(in)
	if len(slots) != 6 {
		t.Fatalf("expected 6 morning slots, got %d: %v", len(slots), starts(slots))
	}
	if last := slots[len(slots)-1]; last.End != at(12, 0) {
		t.Errorf("last slot must end at the midday boundary, got %s", last.End)
	}
}

func TestComputeDaySlots_MorningLeaveClampIsNoOpWhenStartAfterMidday(t *testing.T) {
	// The clamp takes the later of schedule start and midday; a doctor who
	// starts at 14:00 is unaffected by a morning leave.
	in := DayInput{
		Schedule: workday(at(14, 0), at(18, 0)),
		Leave:    leave(schedule.LeaveHalfDayMorning),
		SlotMins: 30,
		Midday:   at(12, 0),
	}
	slots := ComputeDaySlots(in)
	if len(slots) != 8 {
		t.Errorf("expected the full 8 afternoon slots, got %d", len(slots))
	}
}

func TestComputeDaySlots_EveningLeaveBeforeScheduleStart(t *testing.T) {
	// Evening leave with midday before the window start collapses the
	// window entirely.
	in := DayInput{
		Schedule: workday(at(14, 0), at(18, 0)),
		Leave:    leave(schedule.LeaveHalfDayEvening),
		SlotMins: 30,
		Midday:   at(12, 0),
	}
	if slots := ComputeDaySlots(in); len(slots) != 0 {
		t.Errorf("expected no slots, got %v", starts(slots))
	}
}

func TestComputeDaySlots_HalfDayClampIndependentOfBreak(t *testing.T) {
	// The midday boundary and the break window are independent concepts:
	// both apply on the same day.
	in := DayInput{
		Schedule: withBreak(workday(at(9, 0), at(17, 0)), at(13, 0), at(14, 0)),
		Leave:    leave(schedule.LeaveHalfDayMorning),
		SlotMins: 30,
		Midday:   at(12, 0),
	}
	slots := ComputeDaySlots(in)
	// 12:00-17:00 is 10 raw slots; the break removes 2.
	if len(slots) != 8 {
		t.Fatalf("expected 8 slots, got %d: %v", len(slots), starts(slots))
	}
	for _, s := range slots {
		if s.Start < at(12, 0) {
			t.Errorf("found morning slot %s despite morning leave", s.Start)
		}
		if s.Overlaps(at(13, 0), at(14, 0)) {
			t.Errorf("slot %s-%s overlaps the break", s.Start, s.End)
		}
	}
}

// ---------- Booked slot exclusion ----------

func TestComputeDaySlots_BookedSlotExcluded(t *testing.T) {
	in := DayInput{
		Schedule: workday(at(9, 0), at(17, 0)),
		SlotMins: 30,
		Appointments: []*appointment.Appointment{
			appt(at(10, 0), appointment.StatusScheduled),
		},
	}
	slots := ComputeDaySlots(in)
	if contains(slots, at(10, 0)) {
		t.Error("slot with a scheduled appointment must be excluded")
	}
	if len(slots) != 15 {
		t.Errorf("expected 15 remaining slots, got %d", len(slots))
	}
}

func TestComputeDaySlots_CancelledAppointmentFreesSlot(t *testing.T) {
	in := DayInput{
		Schedule: workday(at(9, 0), at(17, 0)),
		SlotMins: 30,
		Appointments: []*appointment.Appointment{
			appt(at(10, 30), appointment.StatusCancelled),
			appt(at(11, 0), appointment.StatusNoShow),
		},
	}
	slots := ComputeDaySlots(in)
	if !contains(slots, at(10, 30)) {
		t.Error("cancelled appointment must not occupy its slot")
	}
	if !contains(slots, at(11, 0)) {
		t.Error("no-show appointment must not occupy its slot")
	}
}

func TestComputeDaySlots_CompletedAppointmentOccupies(t *testing.T) {
	in := DayInput{
		Schedule: workday(at(9, 0), at(17, 0)),
		SlotMins: 30,
		Appointments: []*appointment.Appointment{
			appt(at(9, 0), appointment.StatusCompleted),
		},
	}
	if contains(ComputeDaySlots(in), at(9, 0)) {
		t.Error("completed appointment must still occupy its slot")
	}
}

func TestComputeDaySlots_DuplicateBookingsCountOnce(t *testing.T) {
	// Two appointments at the same time should not exist, but when they
	// do the slot is removed once and nothing else changes.
	in := DayInput{
		Schedule: workday(at(9, 0), at(12, 0)),
		SlotMins: 30,
		Appointments: []*appointment.Appointment{
			appt(at(9, 30), appointment.StatusScheduled),
			appt(at(9, 30), appointment.StatusScheduled),
		},
	}
	slots := ComputeDaySlots(in)
	if len(slots) != 5 {
		t.Errorf("expected 5 slots after removing the shared one, got %d", len(slots))
	}
	if contains(slots, at(9, 30)) {
		t.Error("doubly booked slot must be excluded")
	}
}

func TestComputeDaySlots_AppointmentAtSlotEndBelongsToNextSlot(t *testing.T) {
	// Half-open bounds: an appointment at 09:30 occupies the 09:30 slot,
	// never the 09:00-09:30 one.
	in := DayInput{
		Schedule: workday(at(9, 0), at(10, 0)),
		SlotMins: 30,
		Appointments: []*appointment.Appointment{
			appt(at(9, 30), appointment.StatusScheduled),
		},
	}
	slots := ComputeDaySlots(in)
	if !contains(slots, at(9, 0)) {
		t.Error("the 09:00 slot must survive an appointment at its end bound")
	}
	if contains(slots, at(9, 30)) {
		t.Error("the 09:30 slot must be excluded")
	}
}

// ---------- Determinism ----------

func TestComputeDaySlots_Idempotent(t *testing.T) {
	in := DayInput{
		Schedule: withBreak(workday(at(9, 0), at(17, 0)), at(13, 0), at(14, 0)),
		Leave:    leave(schedule.LeaveHalfDayEvening),
		SlotMins: 30,
		Midday:   at(12, 0),
		Appointments: []*appointment.Appointment{
			appt(at(9, 0), appointment.StatusScheduled),
			appt(at(10, 0), appointment.StatusCancelled),
		},
	}
	first := ComputeDaySlots(in)
	second := ComputeDaySlots(in)
	if len(first) != len(second) {
		t.Fatalf("results differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("slot %d differs between calls: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestComputeDaySlots_Ascending(t *testing.T) {
	in := DayInput{
		Schedule: withBreak(workday(at(8, 0), at(18, 0)), at(12, 0), at(13, 0)),
		SlotMins: 20,
	}
	slots := ComputeDaySlots(in)
	for i := 1; i < len(slots); i++ {
		if slots[i].Start <= slots[i-1].Start {
			t.Fatalf("slots not in ascending order at index %d: %v", i, starts(slots))
		}
	}
}
