package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk-api/internal/domain"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/doctor"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
	"github.com/clinicdesk/clinicdesk-api/internal/notification"
)

// In-memory repository fakes. Each stores entities keyed the way the
// real store indexes them and honors the same sentinel-error contracts.

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*doctor.Doctor
	err     error
}

func newFakeDoctorRepo(ds ...*doctor.Doctor) *fakeDoctorRepo {
	r := &fakeDoctorRepo{doctors: make(map[uuid.UUID]*doctor.Doctor)}
	for _, d := range ds {
		r.doctors[d.ID] = d
	}
	return r
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *doctor.Doctor) error {
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.doctors {
		if existing.Email == d.Email {
			return doctor.ErrDoctorAlreadyExists
		}
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	if r.err != nil {
		return nil, r.err
	}
	d, ok := r.doctors[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	return d, nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	if cmd.SlotDurationMins != nil {
		d.SlotDurationMins = *cmd.SlotDurationMins
	}
	if cmd.Status != nil {
		d.Status = *cmd.Status
	}
	return d, nil
}

func (r *fakeDoctorRepo) List(_ context.Context, q *doctor.ListDoctorsQuery) (*doctor.PagedDoctors, error) {
	var out []*doctor.Doctor
	for _, d := range r.doctors {
		out = append(out, d)
	}
	return &doctor.PagedDoctors{Doctors: out, TotalCount: int64(len(out)), Page: q.Page, PageSize: q.PageSize}, nil
}

type weekKey struct {
	doctorID uuid.UUID
	day      schedule.Weekday
}

type fakeScheduleRepo struct {
	week   map[weekKey]*schedule.WeeklySchedule
	leaves map[uuid.UUID]*schedule.LeaveEntry
	err    error
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		week:   make(map[weekKey]*schedule.WeeklySchedule),
		leaves: make(map[uuid.UUID]*schedule.LeaveEntry),
	}
}

func (r *fakeScheduleRepo) setDay(doctorID uuid.UUID, ws *schedule.WeeklySchedule) {
	ws.DoctorID = doctorID
	r.week[weekKey{doctorID, ws.DayOfWeek}] = ws
}

func (r *fakeScheduleRepo) GetForDay(_ context.Context, doctorID uuid.UUID, day schedule.Weekday) (*schedule.WeeklySchedule, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.week[weekKey{doctorID, day}], nil
}

func (r *fakeScheduleRepo) GetWeek(_ context.Context, doctorID uuid.UUID) ([]*schedule.WeeklySchedule, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*schedule.WeeklySchedule
	for day := schedule.Sunday; day <= schedule.Saturday; day++ {
		if ws, ok := r.week[weekKey{doctorID, day}]; ok {
			out = append(out, ws)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) UpsertWeek(_ context.Context, cmd *schedule.UpsertWeekCommand) ([]*schedule.WeeklySchedule, error) {
	if r.err != nil {
		return nil, r.err
	}
	for day := schedule.Sunday; day <= schedule.Saturday; day++ {
		delete(r.week, weekKey{cmd.DoctorID, day})
	}
	var out []*schedule.WeeklySchedule
	for _, d := range cmd.Days {
		ws := &schedule.WeeklySchedule{
			ID:          uuid.New(),
			DoctorID:    cmd.DoctorID,
			DayOfWeek:   d.DayOfWeek,
			IsAvailable: d.IsAvailable,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			BreakStart:  d.BreakStart,
			BreakEnd:    d.BreakEnd,
		}
		r.week[weekKey{cmd.DoctorID, d.DayOfWeek}] = ws
		out = append(out, ws)
	}
	return out, nil
}

func (r *fakeScheduleRepo) GetLeave(_ context.Context, doctorID uuid.UUID, date time.Time) (*schedule.LeaveEntry, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, e := range r.leaves {
		if e.DoctorID == doctorID && e.LeaveDate.Equal(schedule.DateOnly(date)) {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeScheduleRepo) ListLeaves(_ context.Context, q *schedule.ListLeavesQuery) ([]*schedule.LeaveEntry, error) {
	var out []*schedule.LeaveEntry
	for _, e := range r.leaves {
		if e.DoctorID == q.DoctorID && !e.LeaveDate.Before(q.From) && !e.LeaveDate.After(q.To) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) CreateLeave(_ context.Context, e *schedule.LeaveEntry) error {
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.leaves {
		if existing.DoctorID == e.DoctorID && existing.LeaveDate.Equal(e.LeaveDate) {
			return schedule.ErrLeaveAlreadyExists
		}
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.LeaveDate = schedule.DateOnly(e.LeaveDate)
	r.leaves[e.ID] = e
	return nil
}

func (r *fakeScheduleRepo) DeleteLeave(_ context.Context, id uuid.UUID) error {
	if _, ok := r.leaves[id]; !ok {
		return schedule.ErrLeaveNotFound
	}
	delete(r.leaves, id)
	return nil
}

type fakeAppointmentRepo struct {
	appts map[uuid.UUID]*appointment.Appointment
	err   error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: make(map[uuid.UUID]*appointment.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.appts {
		if existing.DoctorID == a.DoctorID &&
			existing.AppointmentDate.Equal(a.AppointmentDate) &&
			existing.StartTime == a.StartTime &&
			existing.Occupies() {
			return appointment.ErrAppointmentConflict
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.appts[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.appts[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return a, nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	var out []*appointment.Appointment
	for _, a := range r.appts {
		if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
			continue
		}
		if q.PatientID != nil && a.PatientID != *q.PatientID {
			continue
		}
		if q.Status != nil && a.Status != *q.Status {
			continue
		}
		out = append(out, a)
	}
	return &appointment.PagedAppointments{Appointments: out, TotalCount: int64(len(out)), Page: q.Page, PageSize: q.PageSize}, nil
}

func (r *fakeAppointmentRepo) ListForDay(_ context.Context, doctorID uuid.UUID, date time.Time, statuses []appointment.Status) ([]*appointment.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*appointment.Appointment
	for _, a := range r.appts {
		if a.DoctorID != doctorID || !a.AppointmentDate.Equal(schedule.DateOnly(date)) {
			continue
		}
		for _, st := range statuses {
			if a.Status == st {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.appts[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	r.appts[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) HasConflict(_ context.Context, doctorID uuid.UUID, date time.Time, start schedule.TimeOfDay, excludeID *uuid.UUID) (bool, error) {
	for _, a := range r.appts {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(schedule.DateOnly(date)) && a.StartTime == start && a.Occupies() {
			return true, nil
		}
	}
	return false, nil
}

type nopAuditRepo struct{}

func (nopAuditRepo) Create(context.Context, *domain.AuditLog) error { return nil }

// Test wiring helpers.

func testAuditService() *AuditService {
	return NewAuditService(nopAuditRepo{}, nil, zap.NewNop())
}

func testDispatcher() *notification.Dispatcher {
	return notification.NewDispatcher(notification.NopSender{}, zap.NewNop(), nil)
}

func workdayRow(day schedule.Weekday, start, end schedule.TimeOfDay) *schedule.WeeklySchedule {
	return &schedule.WeeklySchedule{
		ID:          uuid.New(),
		DayOfWeek:   day,
		IsAvailable: true,
		StartTime:   start,
		EndTime:     end,
	}
}

func testDoctor(slotMins int) *doctor.Doctor {
	return &doctor.Doctor{
		ID:               uuid.New(),
		FirstName:        "Asha",
		LastName:         "Rao",
		Email:            "asha.rao@clinicdesk.io",
		SlotDurationMins: slotMins,
		Status:           doctor.StatusActive,
	}
}
