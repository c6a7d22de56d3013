package schedule

import "errors"

var (
	ErrInvalidWeekday     = errors.New("day of week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidTimeOfDay   = errors.New("time of day must fall within a single day")
	ErrWindowInverted     = errors.New("schedule start time must be before end time")
	ErrBreakIncomplete    = errors.New("break window requires both start and end")
	ErrBreakOutsideWindow = errors.New("break window must fall within working hours")
	ErrDuplicateDay       = errors.New("weekly template contains the same weekday twice")

	ErrLeaveNotFound      = errors.New("leave entry not found")
	ErrLeaveAlreadyExists = errors.New("an active leave entry already exists for this date")
	ErrInvalidLeaveType   = errors.New("invalid leave type")
)
