package domain

import (
	"errors"
	"time"
)

// Status is the durable subscription state stored on the restaurant row.
// It is the system of record for sweep dedupe; visibility additionally
// derives from on_hold and the expiry timestamp.
type Status string

const (
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusCanceled Status = "canceled"
)

var (
	ErrInvalidStatus     = errors.New("invalid_subscription_status")
	ErrInvalidTransition = errors.New("invalid_subscription_transition")
)

var transitions = map[Status]map[Status]bool{
	StatusActive: {
		StatusExpired:  true,
		StatusCanceled: true,
	},
	StatusExpired: {
		StatusActive:   true,
		StatusCanceled: true,
	},
	StatusCanceled: {
		StatusActive: true,
	},
}

// Transition validates a status change against the lifecycle table.
func Transition(current, to Status) error {
	allowed, ok := transitions[current]
	if !ok {
		return ErrInvalidStatus
	}
	if _, ok := transitions[to]; !ok {
		return ErrInvalidStatus
	}
	if !allowed[to] {
		return ErrInvalidTransition
	}
	return nil
}

// Unavailable reports whether the public menu should be hidden. A past
// expiry hides the menu even before the sweep flips the durable status.
func Unavailable(status Status, onHold bool, expiresAt *time.Time, now time.Time) bool {
	if onHold {
		return true
	}
	if status != StatusActive {
		return true
	}
	if expiresAt != nil && !now.Before(*expiresAt) {
		return true
	}
	return false
}

// DaysRemaining returns whole days until expiry, rounded up so a partial
// day still counts. Negative when already past.
func DaysRemaining(expiresAt, now time.Time) int {
	remaining := expiresAt.Sub(now)
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}
