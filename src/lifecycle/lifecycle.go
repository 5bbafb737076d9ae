// Package lifecycle computes the derived event and ticket flags from stored
// dates and an explicit evaluation instant. Both read and write paths call
// these before serving or persisting, so the stored flags never drift more
// than one sweep from computed truth.
package lifecycle

import (
	"time"

	"accesscrate/src/types"
)

type EventState struct {
	EventType          types.EventType
	IsActive           bool
	IsTicketsAvailable bool
}

// Midnight truncates an instant to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EvaluateEvent derives eventType, isActive and isTicketsAvailable. Date
// equality alone decides "current": an event dated today is active whether or
// not entry is free. Comparison is by calendar day.
func EvaluateEvent(date time.Time, ticketCount int, now time.Time) EventState {
	day := Midnight(date)
	today := Midnight(now)

	state := EventState{IsTicketsAvailable: ticketCount > 0}
	switch {
	case day.Before(today):
		state.EventType = types.EVENT_PAST
		state.IsActive = false
	case day.After(today):
		state.EventType = types.EVENT_UPCOMING
		state.IsActive = false
	default:
		state.EventType = types.EVENT_CURRENT
		state.IsActive = true
	}
	return state
}

// TicketActive reports whether now falls inside the sales window, bounds
// inclusive.
func TicketActive(salesStart, salesEnd, now time.Time) bool {
	if now.Before(salesStart) {
		return false
	}
	return !now.After(salesEnd)
}
