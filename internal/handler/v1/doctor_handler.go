package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk-api/internal/domain/doctor"
	"github.com/clinicdesk/clinicdesk-api/internal/service"
)

// DoctorHandler serves the doctor registry.
type DoctorHandler struct {
	svc *service.DoctorService
}

func NewDoctorHandler(svc *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{svc: svc}
}

type registerDoctorRequest struct {
	FirstName        string  `json:"first_name" binding:"required"`
	LastName         string  `json:"last_name" binding:"required"`
	Specialty        string  `json:"specialty"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email" binding:"required,email"`
	ClinicID         *string `json:"clinic_id"`
	SlotDurationMins int     `json:"slot_duration_mins"`
	ConsultationFee  int     `json:"consultation_fee"`
	Bio              string  `json:"bio"`
}

func (h *DoctorHandler) Register(c *gin.Context) {
	var req registerDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &doctor.CreateDoctorCommand{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Specialty:        req.Specialty,
		Phone:            req.Phone,
		Email:            req.Email,
		SlotDurationMins: req.SlotDurationMins,
		ConsultationFee:  req.ConsultationFee,
		Bio:              req.Bio,
	}
	if req.ClinicID != nil {
		id, err := uuid.Parse(*req.ClinicID)
		if err != nil {
			respondError(c, 400, "invalid clinic_id: must be a valid UUID")
			return
		}
		cmd.ClinicID = &id
	}

	callerID, callerRole := callerIdentity(c)
	cmd.CreatedBy = callerID

	d, err := h.svc.RegisterDoctor(c.Request.Context(), cmd, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, d)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.svc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

type updateDoctorRequest struct {
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	Specialty        *string `json:"specialty"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	SlotDurationMins *int    `json:"slot_duration_mins"`
	ConsultationFee  *int    `json:"consultation_fee"`
	Bio              *string `json:"bio"`
	Status           *string `json:"status"`
}

func (h *DoctorHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &doctor.UpdateDoctorCommand{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Specialty:        req.Specialty,
		Phone:            req.Phone,
		Email:            req.Email,
		SlotDurationMins: req.SlotDurationMins,
		ConsultationFee:  req.ConsultationFee,
		Bio:              req.Bio,
	}
	if req.Status != nil {
		st := doctor.Status(*req.Status)
		if st != doctor.StatusActive && st != doctor.StatusInactive {
			respondError(c, 400, "invalid status: must be active or inactive")
			return
		}
		cmd.Status = &st
	}

	callerID, callerRole := callerIdentity(c)
	cmd.UpdatedBy = callerID

	d, err := h.svc.UpdateDoctor(c.Request.Context(), id, cmd, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

func (h *DoctorHandler) List(c *gin.Context) {
	q := &doctor.ListDoctorsQuery{
		Specialty: c.Query("specialty"),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "page_size", 20),
	}

	if raw := c.Query("clinic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, 400, "invalid clinic_id: must be a valid UUID")
			return
		}
		q.ClinicID = &id
	}
	if raw := c.Query("status"); raw != "" {
		st := doctor.Status(raw)
		q.Status = &st
	}

	page, err := h.svc.ListDoctors(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}
