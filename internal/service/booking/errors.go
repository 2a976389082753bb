package booking

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrUnknownProfessional = errors.New("professional not in session roster")
	ErrInvalidDay          = errors.New("day outside current month")
	ErrStaleSlot           = errors.New("slot not in current availability")
	ErrIncompleteSelection = errors.New("professional, date and slot must all be selected")
	ErrSubmissionInFlight  = errors.New("a confirmation is already in flight")
)
