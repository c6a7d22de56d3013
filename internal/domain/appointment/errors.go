package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentConflict     = errors.New("appointment time slot is already booked")
	ErrSlotNotAvailable        = errors.New("requested slot is not available for booking")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrScheduledInPast         = errors.New("cannot book an appointment in the past")
	ErrInvalidSource           = errors.New("invalid appointment source")
)
