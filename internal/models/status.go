package models

import (
	"fmt"
	"strings"
)

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// StateFilter selects a temporal or status category when listing bookings.
type StateFilter string

const (
	FilterAll      StateFilter = "ALL"
	FilterCurrent  StateFilter = "CURRENT"
	FilterPast     StateFilter = "PAST"
	FilterFuture   StateFilter = "FUTURE"
	FilterWaiting  StateFilter = "WAITING"
	FilterRejected StateFilter = "REJECTED"
)

// ParseStateFilter matches raw case-insensitively against the known filters.
// Unknown values are an error, never a silent fallback to ALL.
func ParseStateFilter(raw string) (StateFilter, error) {
	switch StateFilter(strings.ToUpper(strings.TrimSpace(raw))) {
	case FilterAll:
		return FilterAll, nil
	case FilterCurrent:
		return FilterCurrent, nil
	case FilterPast:
		return FilterPast, nil
	case FilterFuture:
		return FilterFuture, nil
	case FilterWaiting:
		return FilterWaiting, nil
	case FilterRejected:
		return FilterRejected, nil
	default:
		return "", fmt.Errorf("unknown state: %s", raw)
	}
}
