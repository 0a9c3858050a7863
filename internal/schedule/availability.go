package schedule

import (
	"strings"
	"time"
)

// BookedSlot is a (date, slot) pair committed against an offering by a
// booking in an occupying status.
type BookedSlot struct {
	Date time.Time
	Slot string
}

// Offering is the availability view of a bookable unit of instruction: its
// declared slot labels in display order and the pairs already taken.
type Offering struct {
	ID      int64
	OwnerID int64
	Slots   []string
	Booked  []BookedSlot
}

// NormalizeSlot canonicalizes a slot label for comparison. Labels are
// free-form strings, so comparison is case- and whitespace-insensitive.
func NormalizeSlot(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameDay reports whether a and b fall on the same calendar day in UTC.
// Time-of-day is carried by the slot label, not the date.
func SameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month() && au.Day() == bu.Day()
}

// Day truncates t to day granularity in UTC.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// AvailableSlots returns the offering's declared slots still bookable on the
// given date, preserving declared order. Duplicate booked pairs collapse to
// one occupant. Pure; never errors.
func AvailableSlots(o Offering, date time.Time) []string {
	if len(o.Slots) == 0 {
		return nil
	}
	taken := make(map[string]struct{})
	for _, b := range o.Booked {
		if SameDay(b.Date, date) {
			taken[NormalizeSlot(b.Slot)] = struct{}{}
		}
	}
	var free []string
	for _, s := range o.Slots {
		if _, ok := taken[NormalizeSlot(s)]; !ok {
			free = append(free, s)
		}
	}
	return free
}

// IsSlotAvailable reports whether slot is bookable on date.
func IsSlotAvailable(o Offering, slot string, date time.Time) bool {
	want := NormalizeSlot(slot)
	if want == "" {
		return false
	}
	for _, s := range AvailableSlots(o, date) {
		if NormalizeSlot(s) == want {
			return true
		}
	}
	return false
}

// DefaultSelection returns the first available slot for the date, or ok=false
// when nothing is bookable. It is recomputed on every date change; a prior
// selection is never preserved.
func DefaultSelection(o Offering, date time.Time) (string, bool) {
	free := AvailableSlots(o, date)
	if len(free) == 0 {
		return "", false
	}
	return free[0], true
}
