package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinicdesk-api/internal/service"
)

// AvailabilityHandler serves the read side of scheduling: the bookable
// slots of a doctor on a date, and per-day summaries over a range.
type AvailabilityHandler struct {
	svc *service.AvailabilityService
}

func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

func (h *AvailabilityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/doctors/:id/availability", h.GetAvailability)
	rg.GET("/doctors/:id/availability/summary", h.GetSummary)
}

type availabilityResponse struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date"`
	Slots    any    `json:"slots"`
}

// GetAvailability returns the open slots for one doctor on one date.
// An empty slot list is a normal answer, not an error.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	date, ok := parseDate(c, "date")
	if !ok {
		return
	}

	slots, err := h.svc.GetAvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, availabilityResponse{
		DoctorID: doctorID.String(),
		Date:     date.Format("2006-01-02"),
		Slots:    slots,
	})
}

// GetSummary returns per-day open-slot counts starting at ?from for
// ?days days (default 7).
func (h *AvailabilityHandler) GetSummary(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	from, ok := parseDate(c, "from")
	if !ok {
		return
	}
	days := parseQueryInt(c, "days", 7)

	summaries, err := h.svc.GetDaySummaries(c.Request.Context(), doctorID, from, days)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, summaries)
}
