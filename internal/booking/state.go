package booking

import (
	"strings"
	"time"

	"github.com/shareit-go/shareit-backend/internal/pkg/apperror"
)

// RequestState classifies bookings relative to "now" and/or status at query
// time. It is never persisted.
type RequestState string

const (
	StateAll      RequestState = "ALL"
	StateCurrent  RequestState = "CURRENT"
	StatePast     RequestState = "PAST"
	StateFuture   RequestState = "FUTURE"
	StateWaiting  RequestState = "WAITING"
	StateRejected RequestState = "REJECTED"
)

// ParseRequestState canonicalizes a query token case-insensitively. The empty
// string means ALL. Unknown tokens produce a 400 wrapping ErrUnknownState.
func ParseRequestState(s string) (RequestState, error) {
	if s == "" {
		return StateAll, nil
	}
	switch st := RequestState(strings.ToUpper(s)); st {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return st, nil
	default:
		return "", apperror.Wrap(ErrUnknownState, 400, "Unknown state: "+s)
	}
}

// ParseApproved parses the owner's decision token. Only "true" and "false"
// (case-insensitive) are accepted; the boolean result makes any third
// decision state unrepresentable downstream.
func ParseApproved(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, apperror.Wrap(ErrUnknownState, 400, "Approved must be 'true' or 'false', got: "+s)
	}
}

// FilterForState maps a request state and an instant to the temporal/status
// predicate of a booking query. "now" is captured once by the caller so
// CURRENT, PAST and FUTURE agree on the boundary within a single query.
// CURRENT is inclusive on both ends; PAST and FUTURE are strict.
func FilterForState(state RequestState, now time.Time) Filter {
	var f Filter
	switch state {
	case StateWaiting:
		st := StatusWaiting
		f.Status = &st
	case StateRejected:
		st := StatusRejected
		f.Status = &st
	case StateCurrent:
		t := now
		f.CurrentAt = &t
	case StatePast:
		t := now
		f.EndBefore = &t
	case StateFuture:
		t := now
		f.StartAfter = &t
	case StateAll:
		// no predicate
	}
	return f
}

// Matches reports whether a booking satisfies the filter's temporal/status
// predicate. It is the in-memory twin of the SQL translation in the pgx
// repository; the in-memory stores used by tests run on it.
func (f Filter) Matches(b *Booking) bool {
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.CurrentAt != nil && (b.Start.After(*f.CurrentAt) || b.End.Before(*f.CurrentAt)) {
		return false
	}
	if f.EndBefore != nil && !b.End.Before(*f.EndBefore) {
		return false
	}
	if f.StartAfter != nil && !b.Start.After(*f.StartAfter) {
		return false
	}
	return true
}
