package schedule

import "testing"

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"requested", StatusRequested, false},
		{"approved", StatusApproved, false},
		{"rejected", StatusRejected, false},
		{"completed", StatusCompleted, false},
		{"cancelled", StatusCancelled, false},
		// boundary aliases
		{"pending", StatusRequested, false},
		{"accepted", StatusApproved, false},
		{"canceled", StatusCancelled, false},
		// junk
		{"", "", true},
		{"active", "", true},
		{"REQUESTED", "", true},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseStatus(%q): expected error, got %s", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseStatus(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	if !StatusRequested.Occupies() || !StatusApproved.Occupies() {
		t.Fatal("requested and approved must occupy their slot")
	}
	for _, s := range []Status{StatusRejected, StatusCompleted, StatusCancelled} {
		if !s.IsTerminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
	if !StatusCompleted.Occupies() {
		t.Fatal("completed keeps its historical occupancy")
	}
	for _, s := range []Status{StatusRejected, StatusCancelled} {
		if s.Occupies() {
			t.Fatalf("%s must free its slot", s)
		}
	}
	if Status("bogus").IsValid() {
		t.Fatal("unknown status must not be valid")
	}
	if !Status("bogus").IsTerminal() {
		t.Fatal("unknown status must be treated as closed")
	}
}
