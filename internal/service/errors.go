package service

import "errors"

// Sentinel errors for the core operations. Handlers match these with
// errors.Is to pick status codes; messages stay human-readable.
var (
	ErrAccountNotFound     = errors.New("student account not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrPackageNotFound     = errors.New("package not found")
	ErrInsufficientCredits = errors.New("insufficient credits, please purchase a package")
	ErrSlotUnavailable     = errors.New("slot is fully booked")
	ErrValidation          = errors.New("validation failed")
	ErrLocked              = errors.New("resource is locked by another operation")
	ErrStoreUnavailable    = errors.New("state store unavailable")
)
