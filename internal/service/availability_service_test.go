package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk-api/internal/domain"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/doctor"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

const middayNoon = schedule.TimeOfDay(12 * 60)

func newAvailabilityService(dr doctor.Repository, sr schedule.Repository, ar appointment.Repository) *AvailabilityService {
	return NewAvailabilityService(dr, sr, ar, middayNoon, nil, zap.NewNop())
}

func TestGetAvailableSlotsUnknownDoctor(t *testing.T) {
	svc := newAvailabilityService(newFakeDoctorRepo(), newFakeScheduleRepo(), newFakeAppointmentRepo())

	_, err := svc.GetAvailableSlots(context.Background(), uuid.New(), monday)
	if !errors.Is(err, doctor.ErrDoctorNotFound) {
		t.Fatalf("want ErrDoctorNotFound, got %v", err)
	}
}

func TestGetAvailableSlotsDayOffIsEmptyNotError(t *testing.T) {
	d := testDoctor(30)
	svc := newAvailabilityService(newFakeDoctorRepo(d), newFakeScheduleRepo(), newFakeAppointmentRepo())

	slots, err := svc.GetAvailableSlots(context.Background(), d.ID, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots == nil {
		t.Fatal("want empty slice, got nil")
	}
	if len(slots) != 0 {
		t.Fatalf("want 0 slots on a day with no template row, got %d", len(slots))
	}
}

func TestGetAvailableSlotsHappyPath(t *testing.T) {
	d := testDoctor(30)
	sr := newFakeScheduleRepo()
	sr.setDay(d.ID, workdayRow(schedule.Monday, 9*60, 12*60))
	svc := newAvailabilityService(newFakeDoctorRepo(d), sr, newFakeAppointmentRepo())

	slots, err := svc.GetAvailableSlots(context.Background(), d.ID, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 6 {
		t.Fatalf("want 6 slots for 09:00-12:00 at 30m, got %d", len(slots))
	}
	if slots[0].Start != 9*60 || slots[5].End != 12*60 {
		t.Errorf("slot bounds wrong: first=%v last=%v", slots[0], slots[5])
	}
}

func TestGetAvailableSlotsExcludesBookedAndLeave(t *testing.T) {
	d := testDoctor(30)
	sr := newFakeScheduleRepo()
	sr.setDay(d.ID, workdayRow(schedule.Monday, 9*60, 17*60))
	ar := newFakeAppointmentRepo()
	ar.appts[uuid.New()] = &appointment.Appointment{
		ID: uuid.New(), DoctorID: d.ID,
		AppointmentDate: monday, StartTime: 9 * 60,
		DurationMins: 30, Status: appointment.StatusScheduled,
	}
	sr.leaves[uuid.New()] = &schedule.LeaveEntry{
		ID: uuid.New(), DoctorID: d.ID,
		LeaveDate: monday, LeaveType: schedule.LeaveHalfDayMorning,
	}

	svc := newAvailabilityService(newFakeDoctorRepo(d), sr, ar)

	slots, err := svc.GetAvailableSlots(context.Background(), d.ID, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Morning leave clamps the window to 12:00-17:00; the 09:00 booking
	// falls outside the clamped window and changes nothing.
	if len(slots) != 10 {
		t.Fatalf("want 10 slots, got %d", len(slots))
	}
	if slots[0].Start != 12*60 {
		t.Errorf("want first slot at 12:00, got %v", slots[0].Start)
	}
}

func TestGetAvailableSlotsStoreFaultPropagates(t *testing.T) {
	d := testDoctor(30)
	sr := newFakeScheduleRepo()
	sr.err = domain.ErrStoreUnavailable
	svc := newAvailabilityService(newFakeDoctorRepo(d), sr, newFakeAppointmentRepo())

	_, err := svc.GetAvailableSlots(context.Background(), d.ID, monday)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable to propagate, got %v", err)
	}
}

func TestIsSlotOpen(t *testing.T) {
	d := testDoctor(30)
	sr := newFakeScheduleRepo()
	sr.setDay(d.ID, workdayRow(schedule.Monday, 9*60, 12*60))
	svc := newAvailabilityService(newFakeDoctorRepo(d), sr, newFakeAppointmentRepo())

	open, mins, err := svc.IsSlotOpen(context.Background(), d.ID, monday, 9*60+30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !open || mins != 30 {
		t.Errorf("want open 30m slot at 09:30, got open=%v mins=%d", open, mins)
	}

	// Off-grid start times are never open, even inside the window.
	open, _, err = svc.IsSlotOpen(context.Background(), d.ID, monday, 9*60+15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if open {
		t.Error("09:15 is not a slot boundary, want closed")
	}
}

func TestGetDaySummariesRangeValidation(t *testing.T) {
	d := testDoctor(30)
	svc := newAvailabilityService(newFakeDoctorRepo(d), newFakeScheduleRepo(), newFakeAppointmentRepo())

	for _, days := range []int{0, -1, 32} {
		var validErr *ValidationError
		_, err := svc.GetDaySummaries(context.Background(), d.ID, monday, days)
		if !errors.As(err, &validErr) {
			t.Errorf("days=%d: want ValidationError, got %v", days, err)
		}
	}
}

func TestGetDaySummaries(t *testing.T) {
	d := testDoctor(30)
	sr := newFakeScheduleRepo()
	sr.setDay(d.ID, workdayRow(schedule.Monday, 9*60, 11*60))
	svc := newAvailabilityService(newFakeDoctorRepo(d), sr, newFakeAppointmentRepo())

	summaries, err := svc.GetDaySummaries(context.Background(), d.ID, monday, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("want 3 summaries, got %d", len(summaries))
	}

	mon := summaries[0]
	if mon.DayOff || mon.OpenSlots != 4 || mon.FirstSlot != "09:00" {
		t.Errorf("monday summary wrong: %+v", mon)
	}
	tue := summaries[1]
	if !tue.DayOff || tue.OpenSlots != 0 {
		t.Errorf("tuesday should be a day off: %+v", tue)
	}
	if mon.Date != "2026-03-02" || tue.Date != "2026-03-03" {
		t.Errorf("dates wrong: %s, %s", mon.Date, tue.Date)
	}
}
