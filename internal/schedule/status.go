package schedule

import "fmt"

// Status is the canonical lifecycle state of a booking.
type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// aliases maps status spellings seen at the data boundary onto the canonical
// five states. Everything past this point reasons about canonical values only.
var aliases = map[string]Status{
	"pending":  StatusRequested,
	"accepted": StatusApproved,
	"canceled": StatusCancelled,
}

// validTransitions defines the booking state machine. Terminal states map to
// an empty slice.
var validTransitions = map[Status][]Status{
	StatusRequested: {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusCompleted, StatusRejected, StatusCancelled},
	StatusRejected:  {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ParseStatus normalizes an external status string to a canonical Status.
func ParseStatus(s string) (Status, error) {
	if canonical, ok := aliases[s]; ok {
		return canonical, nil
	}
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return status, nil
}

// IsValid reports whether the status is one of the canonical states.
func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return true
	}
	return len(allowed) == 0
}

// CanTransitionTo reports whether the edge from s to target exists.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Occupies reports whether a booking in this status still holds its
// (date, slot) pair. Only rejected and cancelled bookings free the slot;
// completed ones keep their historical occupancy.
func (s Status) Occupies() bool {
	return s == StatusRequested || s == StatusApproved || s == StatusCompleted
}

func (s Status) String() string {
	return string(s)
}
