package booking

import (
	"strings"

	"github.com/peershare/service-rental/internal/domain"
)

// QueryState is a caller-supplied listing filter. It is distinct from
// BookingStatus: ALL/CURRENT/PAST/FUTURE narrow by time, WAITING/REJECTED
// narrow by persisted status.
type QueryState string

const (
	QueryStateAll      QueryState = "ALL"
	QueryStateCurrent  QueryState = "CURRENT"
	QueryStatePast     QueryState = "PAST"
	QueryStateFuture   QueryState = "FUTURE"
	QueryStateWaiting  QueryState = "WAITING"
	QueryStateRejected QueryState = "REJECTED"
)

// ParseQueryState converts a string to a QueryState, case-insensitively.
// An empty string defaults to ALL.
func ParseQueryState(s string) (QueryState, error) {
	if s == "" {
		return QueryStateAll, nil
	}
	state := QueryState(strings.ToUpper(s))
	switch state {
	case QueryStateAll, QueryStateCurrent, QueryStatePast, QueryStateFuture,
		QueryStateWaiting, QueryStateRejected:
		return state, nil
	default:
		return "", domain.NewValidationError("unsupported query state: " + s)
	}
}

// Filters resolves the query state into a (status, time filter) pair for the
// owner-side lookup. Nil means "no constraint" on that dimension, never
// "match null".
func (s QueryState) Filters() (*BookingStatus, *TimeFilter, error) {
	switch s {
	case QueryStateAll:
		return nil, nil, nil
	case QueryStateCurrent:
		f := TimeFilterCurrent
		return nil, &f, nil
	case QueryStatePast:
		f := TimeFilterPast
		return nil, &f, nil
	case QueryStateFuture:
		f := TimeFilterFuture
		return nil, &f, nil
	case QueryStateWaiting:
		st := StatusWaiting
		return &st, nil, nil
	case QueryStateRejected:
		st := StatusRejected
		return &st, nil, nil
	default:
		return nil, nil, domain.NewValidationError("unsupported query state: " + string(s))
	}
}
