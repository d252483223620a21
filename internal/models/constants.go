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

// Terminal reports whether no further status transition is allowed.
func (s BookingStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// BookingState is the list filter used by booker and owner booking views.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

var bookingStates = []BookingState{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// ParseBookingState accepts any letter case. An empty value means ALL.
func ParseBookingState(raw string) (BookingState, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return StateAll, nil
	}
	for _, s := range bookingStates {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown booking state: %s", raw)
}

const (
	// HeaderUserID carries the authenticated user id set by the upstream gateway.
	HeaderUserID = "X-Sharer-User-Id"

	// DefaultQuotaRequests количество запросов пользователя в окне
	DefaultQuotaRequests = 120

	// DefaultQuotaWindow окно квоты в секундах
	DefaultQuotaWindow = 60
)
