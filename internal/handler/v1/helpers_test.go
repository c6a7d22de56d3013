package v1

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinicdesk-api/internal/domain"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/doctor"
	"github.com/clinicdesk/clinicdesk-api/internal/domain/schedule"
	"github.com/clinicdesk/clinicdesk-api/internal/service"
)

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{doctor.ErrDoctorNotFound, http.StatusNotFound},
		{appointment.ErrAppointmentNotFound, http.StatusNotFound},
		{schedule.ErrLeaveNotFound, http.StatusNotFound},
		{appointment.ErrAppointmentConflict, http.StatusConflict},
		{appointment.ErrSlotNotAvailable, http.StatusConflict},
		{schedule.ErrLeaveAlreadyExists, http.StatusConflict},
		{doctor.ErrDoctorAlreadyExists, http.StatusConflict},
		{appointment.ErrScheduledInPast, http.StatusBadRequest},
		{appointment.ErrInvalidStatusTransition, http.StatusBadRequest},
		{appointment.ErrInvalidSource, http.StatusBadRequest},
		{schedule.ErrDuplicateDay, http.StatusBadRequest},
		{schedule.ErrWindowInverted, http.StatusBadRequest},
		{schedule.ErrInvalidLeaveType, http.StatusBadRequest},
		{service.ErrInvalidDate, http.StatusBadRequest},
		{&service.ValidationError{Fields: []string{"x"}}, http.StatusBadRequest},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrAccountLocked, http.StatusTooManyRequests},
		{domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("some internal thing"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondServiceError(c, tc.err)
		if w.Code != tc.want {
			t.Errorf("%v: want %d, got %d", tc.err, tc.want, w.Code)
		}
	}
}

// Wrapped store errors must still map to 503: repositories wrap the
// sentinel with operation context before returning.
func TestRespondServiceErrorUnwrapsStoreFault(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondServiceError(c, fmt.Errorf("loading appointments: %w: connection refused", domain.ErrStoreUnavailable))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("want 503 for wrapped store fault, got %d", w.Code)
	}
}
