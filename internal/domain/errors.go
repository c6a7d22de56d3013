package domain

import "errors"

// ErrStoreUnavailable wraps driver-level failures from the persistence
// layer. Callers surface it unchanged; there is no retry and no partial
// result, since answering from an incomplete read would silently hide
// unavailable data.
var ErrStoreUnavailable = errors.New("persistence store unavailable")

var ErrUserNotFound = errors.New("user not found")
