package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
	"github.com/clinicdesk/clinicdesk-api/internal/service"
)

// ScheduleHandler serves the write side of scheduling: the weekly
// template and leave entries that the availability resolver reads.
type ScheduleHandler struct {
	svc *service.ScheduleService
}

func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

type dayTemplateRequest struct {
	DayOfWeek   int                 `json:"day_of_week"`
	IsAvailable bool                `json:"is_available"`
	StartTime   schedule.TimeOfDay  `json:"start_time"`
	EndTime     schedule.TimeOfDay  `json:"end_time"`
	BreakStart  *schedule.TimeOfDay `json:"break_start,omitempty"`
	BreakEnd    *schedule.TimeOfDay `json:"break_end,omitempty"`
}

type upsertScheduleRequest struct {
	Days []dayTemplateRequest `json:"days" binding:"required"`
}

// UpsertWeeklyTemplate replaces the doctor's weekly template wholesale.
// Days absent from the payload become days off.
func (h *ScheduleHandler) UpsertWeeklyTemplate(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req upsertScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := callerIdentity(c)

	cmd := &schedule.UpsertWeekCommand{
		DoctorID:  doctorID,
		UpdatedBy: callerID,
	}
	for _, d := range req.Days {
		cmd.Days = append(cmd.Days, schedule.DayTemplate{
			DayOfWeek:   schedule.Weekday(d.DayOfWeek),
			IsAvailable: d.IsAvailable,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			BreakStart:  d.BreakStart,
			BreakEnd:    d.BreakEnd,
		})
	}

	week, err := h.svc.UpsertWeeklyTemplate(c.Request.Context(), cmd, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, week)
}

func (h *ScheduleHandler) GetWeeklyTemplate(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	week, err := h.svc.GetWeeklyTemplate(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, week)
}

type createLeaveRequest struct {
	LeaveDate string `json:"leave_date" binding:"required"`
	LeaveType string `json:"leave_type" binding:"required"`
	Reason    string `json:"reason"`
}

func (h *ScheduleHandler) CreateLeave(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req createLeaveRequest
	if !bindJSON(c, &req) {
		return
	}

	leaveDate, err := time.Parse("2006-01-02", req.LeaveDate)
	if err != nil {
		respondServiceError(c, service.ErrInvalidDate)
		return
	}

	callerID, callerRole := callerIdentity(c)

	entry, err := h.svc.CreateLeave(c.Request.Context(), &schedule.CreateLeaveCommand{
		DoctorID:  doctorID,
		LeaveDate: leaveDate,
		LeaveType: schedule.LeaveType(req.LeaveType),
		Reason:    req.Reason,
		CreatedBy: callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, entry)
}

func (h *ScheduleHandler) ListLeaves(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	from, ok := parseDate(c, "from")
	if !ok {
		return
	}
	to, ok := parseDate(c, "to")
	if !ok {
		return
	}

	leaves, err := h.svc.ListLeaves(c.Request.Context(), doctorID, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, leaves)
}

func (h *ScheduleHandler) CancelLeave(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := callerIdentity(c)

	if err := h.svc.CancelLeave(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"cancelled": true})
}
