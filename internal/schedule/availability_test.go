package schedule

import (
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAvailableSlots_NoBookings(t *testing.T) {
	o := Offering{Slots: []string{"9am", "11am"}}
	day := date(2025, 1, 10)

	got := AvailableSlots(o, day)
	want := []string{"9am", "11am"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	slot, ok := DefaultSelection(o, day)
	if !ok || slot != "9am" {
		t.Fatalf("expected default 9am, got %q ok=%v", slot, ok)
	}
}

func TestAvailableSlots_BookedSlotExcluded(t *testing.T) {
	day := date(2025, 1, 10)
	o := Offering{
		Slots:  []string{"9am", "11am"},
		Booked: []BookedSlot{{Date: day, Slot: "9am"}},
	}

	got := AvailableSlots(o, day)
	want := []string{"11am"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	slot, ok := DefaultSelection(o, day)
	if !ok || slot != "11am" {
		t.Fatalf("expected default 11am, got %q ok=%v", slot, ok)
	}
}

func TestAvailableSlots_OtherDateDoesNotOccupy(t *testing.T) {
	o := Offering{
		Slots:  []string{"9am", "11am"},
		Booked: []BookedSlot{{Date: date(2025, 1, 11), Slot: "9am"}},
	}

	got := AvailableSlots(o, date(2025, 1, 10))
	if !reflect.DeepEqual(got, []string{"9am", "11am"}) {
		t.Fatalf("booking on another date must not occupy, got %v", got)
	}
}

func TestAvailableSlots_DuplicateBookedPairsCollapse(t *testing.T) {
	day := date(2025, 1, 10)
	o := Offering{
		Slots: []string{"9am", "11am", "2pm"},
		Booked: []BookedSlot{
			{Date: day, Slot: "9am"},
			{Date: day, Slot: "9am"},
		},
	}

	got := AvailableSlots(o, day)
	if !reflect.DeepEqual(got, []string{"11am", "2pm"}) {
		t.Fatalf("expected [11am 2pm], got %v", got)
	}
}

func TestAvailableSlots_PreservesDeclaredOrder(t *testing.T) {
	day := date(2025, 3, 2)
	o := Offering{
		Slots:  []string{"evening", "morning", "noon"},
		Booked: []BookedSlot{{Date: day, Slot: "morning"}},
	}

	got := AvailableSlots(o, day)
	if !reflect.DeepEqual(got, []string{"evening", "noon"}) {
		t.Fatalf("declared order must be preserved, got %v", got)
	}
}

func TestAvailableSlots_EmptySlotList(t *testing.T) {
	if got := AvailableSlots(Offering{}, date(2025, 1, 10)); len(got) != 0 {
		t.Fatalf("expected no slots, got %v", got)
	}
	if _, ok := DefaultSelection(Offering{}, date(2025, 1, 10)); ok {
		t.Fatal("expected no default selection for empty offering")
	}
}

func TestAvailableSlots_FullyBooked(t *testing.T) {
	day := date(2025, 1, 10)
	o := Offering{
		Slots: []string{"9am"},
		Booked: []BookedSlot{
			{Date: day, Slot: "9am"},
		},
	}
	if got := AvailableSlots(o, day); len(got) != 0 {
		t.Fatalf("expected no slots, got %v", got)
	}
	if _, ok := DefaultSelection(o, day); ok {
		t.Fatal("expected no default selection when fully booked")
	}
}

func TestAvailableSlots_Pure(t *testing.T) {
	day := date(2025, 1, 10)
	o := Offering{
		Slots:  []string{"9am", "11am"},
		Booked: []BookedSlot{{Date: day, Slot: "11am"}},
	}
	first := AvailableSlots(o, day)
	second := AvailableSlots(o, day)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs must give identical output: %v vs %v", first, second)
	}
}

func TestAvailableSlots_DayGranularity(t *testing.T) {
	// A booked pair stored at midnight occupies regardless of the candidate
	// date's time-of-day component.
	o := Offering{
		Slots:  []string{"9am", "11am"},
		Booked: []BookedSlot{{Date: date(2025, 1, 10), Slot: "9am"}},
	}
	afternoon := time.Date(2025, 1, 10, 15, 42, 0, 0, time.UTC)

	got := AvailableSlots(o, afternoon)
	if !reflect.DeepEqual(got, []string{"11am"}) {
		t.Fatalf("date comparison must be day-granular, got %v", got)
	}
}

func TestIsSlotAvailable(t *testing.T) {
	day := date(2025, 1, 10)
	o := Offering{
		Slots:  []string{"9am", "11am"},
		Booked: []BookedSlot{{Date: day, Slot: "9am"}},
	}

	cases := []struct {
		name string
		slot string
		want bool
	}{
		{"free slot", "11am", true},
		{"booked slot", "9am", false},
		{"undeclared slot", "4pm", false},
		{"empty label", "", false},
		{"case and whitespace insensitive", " 11AM ", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsSlotAvailable(o, tc.slot, day); got != tc.want {
				t.Fatalf("IsSlotAvailable(%q) = %v, want %v", tc.slot, got, tc.want)
			}
		})
	}
}

func TestSubsetProperty(t *testing.T) {
	day := date(2025, 6, 1)
	o := Offering{
		Slots: []string{"a", "b", "c", "d"},
		Booked: []BookedSlot{
			{Date: day, Slot: "b"},
			{Date: day, Slot: "d"},
		},
	}
	declared := make(map[string]struct{})
	for _, s := range o.Slots {
		declared[s] = struct{}{}
	}
	for _, s := range AvailableSlots(o, day) {
		if _, ok := declared[s]; !ok {
			t.Fatalf("available slot %q not among declared slots", s)
		}
		for _, b := range o.Booked {
			if SameDay(b.Date, day) && NormalizeSlot(b.Slot) == NormalizeSlot(s) {
				t.Fatalf("available slot %q is booked on %s", s, day)
			}
		}
	}
}
