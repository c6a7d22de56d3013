package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/availability"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/doctor"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
	"github.com/clinicdesk/clinicdesk-api/pkg/metrics"
)

// AvailabilityService answers "what can still be booked" for a doctor and
// date. It loads the day's snapshot and delegates to the pure derivation;
// the result is advisory and the booking path revalidates at write time.
type AvailabilityService struct {
	doctorRepo   doctor.Repository
	scheduleRepo schedule.Repository
	apptRepo     appointment.Repository
	midday       schedule.TimeOfDay
	metrics      *metrics.Collector // optional
	log          *zap.Logger
}

func NewAvailabilityService(
	doctorRepo doctor.Repository,
	scheduleRepo schedule.Repository,
	apptRepo appointment.Repository,
	midday schedule.TimeOfDay,
	collector *metrics.Collector,
	log *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		doctorRepo:   doctorRepo,
		scheduleRepo: scheduleRepo,
		apptRepo:     apptRepo,
		midday:       midday,
		metrics:      collector,
		log:          log,
	}
}

// GetAvailableSlots returns the bookable slots for a doctor on one date,
// ascending. Past dates are permitted: the derivation is not a booking
// gate. Empty results are normal data (day off, full-day leave, fully
// booked); the only failures are an unknown doctor or a store fault.
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]availability.Slot, error) {
	d, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	in, err := s.loadDay(ctx, d, date)
	if err != nil {
		return nil, err
	}

	slots := availability.ComputeDaySlots(in)
	if slots == nil {
		slots = []availability.Slot{}
	}

	if s.metrics != nil {
		s.metrics.AvailabilityQueriesTotal.Inc()
		s.metrics.SlotsReturned.Observe(float64(len(slots)))
	}
	return slots, nil
}

// GetDaySummaries derives a per-day bookability overview for the range
// [from, from+days), the shape the public doctor profile renders.
func (s *AvailabilityService) GetDaySummaries(ctx context.Context, doctorID uuid.UUID, from time.Time, days int) ([]availability.DaySummary, error) {
	if days <= 0 || days > 31 {
		return nil, &ValidationError{Fields: []string{"days must be between 1 and 31"}}
	}

	d, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	summaries := make([]availability.DaySummary, 0, days)
	for i := 0; i < days; i++ {
		date := schedule.DateOnly(from).AddDate(0, 0, i)
		in, err := s.loadDay(ctx, d, date)
		if err != nil {
			return nil, err
		}

		slots := availability.ComputeDaySlots(in)
		summary := availability.DaySummary{
			Date:      date.Format("2006-01-02"),
			DayOff:    in.Schedule == nil || !in.Schedule.IsAvailable,
			OpenSlots: len(slots),
		}
		if len(slots) > 0 {
			summary.FirstSlot = slots[0].Start.String()
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// IsSlotOpen reports whether a specific slot start is currently bookable,
// and returns the slot's length. This is the write path's revalidation.
func (s *AvailabilityService) IsSlotOpen(ctx context.Context, doctorID uuid.UUID, date time.Time, start schedule.TimeOfDay) (bool, int, error) {
	slots, err := s.GetAvailableSlots(ctx, doctorID, date)
	if err != nil {
		return false, 0, err
	}
	for _, slot := range slots {
		if slot.Start == start {
			return true, int(slot.End - slot.Start), nil
		}
	}
	return false, 0, nil
}

func (s *AvailabilityService) loadDay(ctx context.Context, d *doctor.Doctor, date time.Time) (availability.DayInput, error) {
	ws, err := s.scheduleRepo.GetForDay(ctx, d.ID, schedule.WeekdayOf(date))
	if err != nil {
		return availability.DayInput{}, fmt.Errorf("loading weekly schedule: %w", err)
	}

	leave, err := s.scheduleRepo.GetLeave(ctx, d.ID, date)
	if err != nil {
		return availability.DayInput{}, fmt.Errorf("loading leave entry: %w", err)
	}

	appts, err := s.apptRepo.ListForDay(ctx, d.ID, date, appointment.OccupiedStatuses())
	if err != nil {
		return availability.DayInput{}, fmt.Errorf("loading appointments: %w", err)
	}

	return availability.DayInput{
		Schedule:     ws,
		Leave:        leave,
		Appointments: appts,
		SlotMins:     d.SlotDurationMins,
		Midday:       s.midday,
	}, nil
}
