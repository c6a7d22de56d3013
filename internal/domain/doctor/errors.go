package doctor

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorAlreadyExists = errors.New("doctor with this email already exists")
	ErrDoctorInactive      = errors.New("operation not permitted: doctor is inactive")
	ErrInvalidSlotDuration = errors.New("slot duration must be between 5 and 240 minutes")
)
