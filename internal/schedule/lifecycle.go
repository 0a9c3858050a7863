package schedule

import (
	"errors"
	"time"
)

// Role of a marketplace user.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Actor identifies who is attempting a lifecycle operation.
type Actor struct {
	ID   int64
	Role Role
}

// Booking is the lifecycle view of a booking record.
type Booking struct {
	ID          int64
	OfferingID  int64
	RequesterID int64
	OwnerID     int64
	Date        time.Time
	Slot        string
	Status      Status
}

var (
	// ErrInvalidTransition is returned for edges missing from the state
	// machine, attempts out of a terminal state, and booking creation by a
	// non-student.
	ErrInvalidTransition = errors.New("invalid booking transition")
	// ErrUnauthorized is returned when the edge exists but the actor is not
	// permitted to take it.
	ErrUnauthorized = errors.New("actor not permitted for this transition")
	// ErrSlotUnavailable is returned when the requested (date, slot) pair is
	// taken, or the date/slot input is missing or malformed. Fails closed.
	ErrSlotUnavailable = errors.New("slot not available for the requested date")
)

// CreateBooking validates a booking request against the offering's current
// availability and returns a new booking in the requested state. It does not
// mutate the offering: occupancy takes effect once the booking is persisted
// with an occupying status. Temporal ordering (date not in the past) is
// deliberately not checked here; callers enforce it at the boundary.
func CreateBooking(o Offering, slot string, date time.Time, requester Actor) (Booking, error) {
	if requester.Role != RoleStudent {
		return Booking{}, ErrInvalidTransition
	}
	if date.IsZero() || NormalizeSlot(slot) == "" {
		return Booking{}, ErrSlotUnavailable
	}
	if !IsSlotAvailable(o, slot, date) {
		return Booking{}, ErrSlotUnavailable
	}
	return Booking{
		OfferingID:  o.ID,
		RequesterID: requester.ID,
		OwnerID:     o.OwnerID,
		Date:        Day(date),
		Slot:        slot,
		Status:      StatusRequested,
	}, nil
}

// Transition validates the move from the booking's current status to target
// for the given actor and returns an updated copy. The input booking is not
// modified.
func Transition(b Booking, target Status, actor Actor) (Booking, error) {
	if !b.Status.CanTransitionTo(target) {
		return Booking{}, ErrInvalidTransition
	}
	if !transitionAllowed(b, target, actor) {
		return Booking{}, ErrUnauthorized
	}
	b.Status = target
	return b, nil
}

// transitionAllowed encodes the actor column of the transition table:
// approve, reject and complete belong to the offering owner; cancellation to
// either party.
func transitionAllowed(b Booking, target Status, actor Actor) bool {
	switch target {
	case StatusApproved, StatusRejected, StatusCompleted:
		return actor.ID == b.OwnerID
	case StatusCancelled:
		return actor.ID == b.RequesterID || actor.ID == b.OwnerID
	}
	return false
}
