package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
	"github.com/clinicdesk/clinicdesk-api/internal/service"
)

// BookingHandler serves appointment booking and lifecycle transitions.
type BookingHandler struct {
	svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/appointments", h.Book)
	rg.GET("/appointments", h.List)
	rg.GET("/appointments/:id", h.Get)
	rg.POST("/appointments/:id/cancel", h.Cancel)
	rg.POST("/appointments/:id/complete", h.Complete)
	rg.POST("/appointments/:id/no-show", h.NoShow)
}

type bookAppointmentRequest struct {
	PatientID       string             `json:"patient_id" binding:"required"`
	DoctorID        string             `json:"doctor_id" binding:"required"`
	AppointmentDate string             `json:"appointment_date" binding:"required"`
	StartTime       schedule.TimeOfDay `json:"start_time"`
	Source          string             `json:"source"`
	Reason          string             `json:"reason"`
	Notes           string             `json:"notes"`
	ContactEmail    string             `json:"contact_email"`
	ContactPhone    string             `json:"contact_phone"`
}

func (h *BookingHandler) Book(c *gin.Context) {
	var req bookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		respondError(c, 400, "invalid patient_id: must be a valid UUID")
		return
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		respondError(c, 400, "invalid doctor_id: must be a valid UUID")
		return
	}
	date, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		respondServiceError(c, service.ErrInvalidDate)
		return
	}

	callerID, callerRole := callerIdentity(c)

	a, err := h.svc.BookAppointment(c.Request.Context(), &appointment.CreateAppointmentCommand{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: date,
		StartTime:       req.StartTime,
		Source:          appointment.Source(req.Source),
		Reason:          req.Reason,
		Notes:           req.Notes,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		CreatedBy:       callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, a)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	_, callerRole := callerIdentity(c)

	a, err := h.svc.GetAppointment(c.Request.Context(), id, callerRole, callerDoctorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *BookingHandler) List(c *gin.Context) {
	q := &appointment.ListAppointmentsQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, 400, "invalid doctor_id: must be a valid UUID")
			return
		}
		q.DoctorID = &id
	}
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, 400, "invalid patient_id: must be a valid UUID")
			return
		}
		q.PatientID = &id
	}
	if raw := c.Query("status"); raw != "" {
		st := appointment.Status(raw)
		if !st.IsValid() {
			respondError(c, 400, "invalid status filter")
			return
		}
		q.Status = &st
	}
	if raw := c.Query("from"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondServiceError(c, service.ErrInvalidDate)
			return
		}
		q.DateFrom = &d
	}
	if raw := c.Query("to"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondServiceError(c, service.ErrInvalidDate)
			return
		}
		q.DateTo = &d
	}

	_, callerRole := callerIdentity(c)

	page, err := h.svc.ListAppointments(c.Request.Context(), q, callerRole, callerDoctorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req cancelAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := callerIdentity(c)

	a, err := h.svc.CancelAppointment(c.Request.Context(), id, &appointment.CancelAppointmentCommand{
		Reason:      req.Reason,
		CancelledBy: callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := callerIdentity(c)

	a, err := h.svc.CompleteAppointment(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *BookingHandler) NoShow(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := callerIdentity(c)

	a, err := h.svc.MarkNoShow(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}
