package schedule

import (
	"errors"
	"testing"
	"time"
)

var (
	student = Actor{ID: 100, Role: RoleStudent}
	owner   = Actor{ID: 200, Role: RoleTeacher}
	other   = Actor{ID: 300, Role: RoleStudent}
)

func testOffering(booked ...BookedSlot) Offering {
	return Offering{
		ID:      1,
		OwnerID: owner.ID,
		Slots:   []string{"9am", "11am"},
		Booked:  booked,
	}
}

func testBooking(status Status) Booking {
	return Booking{
		ID:          7,
		OfferingID:  1,
		RequesterID: student.ID,
		OwnerID:     owner.ID,
		Date:        date(2025, 1, 10),
		Slot:        "9am",
		Status:      status,
	}
}

func TestCreateBooking(t *testing.T) {
	day := date(2025, 1, 10)

	b, err := CreateBooking(testOffering(), "9am", day, student)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != StatusRequested {
		t.Fatalf("new booking must start requested, got %s", b.Status)
	}
	if b.RequesterID != student.ID || b.OwnerID != owner.ID {
		t.Fatalf("booking parties wrong: requester=%d owner=%d", b.RequesterID, b.OwnerID)
	}
	if !b.Date.Equal(Day(day)) {
		t.Fatalf("booking date must be day-truncated, got %s", b.Date)
	}
}

func TestCreateBooking_SlotTaken(t *testing.T) {
	day := date(2025, 1, 10)
	o := testOffering(BookedSlot{Date: day, Slot: "9am"})

	if _, err := CreateBooking(o, "9am", day, student); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	// The other slot stays bookable.
	if _, err := CreateBooking(o, "11am", day, student); err != nil {
		t.Fatalf("11am should be bookable: %v", err)
	}
}

func TestCreateBooking_NonStudent(t *testing.T) {
	day := date(2025, 1, 10)
	for _, actor := range []Actor{owner, {ID: 9, Role: RoleAdmin}} {
		if _, err := CreateBooking(testOffering(), "9am", day, actor); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("role %s: expected ErrInvalidTransition, got %v", actor.Role, err)
		}
	}
}

func TestCreateBooking_FailsClosedOnBadInput(t *testing.T) {
	day := date(2025, 1, 10)
	if _, err := CreateBooking(testOffering(), "", day, student); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("empty slot: expected ErrSlotUnavailable, got %v", err)
	}
	if _, err := CreateBooking(testOffering(), "9am", time.Time{}, student); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("zero date: expected ErrSlotUnavailable, got %v", err)
	}
	if _, err := CreateBooking(testOffering(), "4pm", day, student); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("undeclared slot: expected ErrSlotUnavailable, got %v", err)
	}
}

func TestTransition_Table(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		to      Status
		actor   Actor
		wantErr error
	}{
		{"owner approves requested", StatusRequested, StatusApproved, owner, nil},
		{"owner rejects requested", StatusRequested, StatusRejected, owner, nil},
		{"owner completes approved", StatusApproved, StatusCompleted, owner, nil},
		{"owner rejects approved", StatusApproved, StatusRejected, owner, nil},
		{"requester cancels requested", StatusRequested, StatusCancelled, student, nil},
		{"requester cancels approved", StatusApproved, StatusCancelled, student, nil},
		{"owner cancels requested", StatusRequested, StatusCancelled, owner, nil},
		{"owner cancels approved", StatusApproved, StatusCancelled, owner, nil},

		{"requester approves", StatusRequested, StatusApproved, student, ErrUnauthorized},
		{"requester rejects", StatusRequested, StatusRejected, student, ErrUnauthorized},
		{"stranger completes approved", StatusApproved, StatusCompleted, other, ErrUnauthorized},
		{"stranger cancels", StatusRequested, StatusCancelled, other, ErrUnauthorized},

		{"requested straight to completed", StatusRequested, StatusCompleted, owner, ErrInvalidTransition},
		{"approved back to requested", StatusApproved, StatusRequested, owner, ErrInvalidTransition},
		{"rejected resurrected", StatusRejected, StatusApproved, owner, ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Transition(testBooking(tc.from), tc.to, tc.actor)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tc.to {
				t.Fatalf("expected status %s, got %s", tc.to, got.Status)
			}
		})
	}
}

func TestTransition_TerminalClosure(t *testing.T) {
	terminals := []Status{StatusCompleted, StatusRejected, StatusCancelled}
	targets := []Status{StatusRequested, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled}
	actors := []Actor{student, owner, {ID: 1, Role: RoleAdmin}}

	for _, from := range terminals {
		for _, to := range targets {
			for _, actor := range actors {
				if _, err := Transition(testBooking(from), to, actor); !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("%s -> %s by %d: expected ErrInvalidTransition, got %v", from, to, actor.ID, err)
				}
			}
		}
	}
}

func TestTransition_DoesNotMutateInput(t *testing.T) {
	b := testBooking(StatusRequested)
	if _, err := Transition(b, StatusApproved, owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != StatusRequested {
		t.Fatalf("input booking mutated to %s", b.Status)
	}
}

func TestApproveThenUnauthorizedComplete(t *testing.T) {
	b, err := Transition(testBooking(StatusRequested), StatusApproved, owner)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if b.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", b.Status)
	}
	if _, err := Transition(b, StatusCompleted, other); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRejectedBookingFreesSlot(t *testing.T) {
	day := date(2025, 1, 10)
	// Occupancy is derived from occupying statuses only, so a rejected
	// booking's pair never enters Offering.Booked and the slot is reusable.
	for _, s := range []Status{StatusRejected, StatusCancelled} {
		if s.Occupies() {
			t.Fatalf("%s must not occupy", s)
		}
	}
	o := testOffering() // no occupying bookings left
	if _, err := CreateBooking(o, "9am", day, student); err != nil {
		t.Fatalf("slot freed by rejection must be bookable: %v", err)
	}
}
