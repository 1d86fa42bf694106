package scheduling

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 9, hour, min, 0, 0, time.UTC)
}

func TestOverlap_Strict(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical", at(10, 0), at(10, 30), at(10, 0), at(10, 30), true},
		{"contained", at(10, 0), at(11, 0), at(10, 15), at(10, 45), true},
		{"partial front", at(10, 0), at(10, 30), at(10, 15), at(10, 45), true},
		{"partial back", at(10, 15), at(10, 45), at(10, 0), at(10, 30), true},
		{"back to back", at(10, 0), at(10, 30), at(10, 30), at(11, 0), false},
		{"back to back reversed", at(10, 30), at(11, 0), at(10, 0), at(10, 30), false},
		{"disjoint", at(9, 0), at(9, 30), at(10, 0), at(10, 30), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("Overlap(%v,%v,%v,%v) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
		})
	}
}

func TestAppointmentEndTime(t *testing.T) {
	a := &Appointment{StartTime: at(10, 0), DurationMinutes: 45}
	if !a.EndTime().Equal(at(10, 45)) {
		t.Errorf("expected end 10:45, got %v", a.EndTime())
	}
}

func TestStatusBlocking(t *testing.T) {
	blocking := []Status{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted}
	for _, s := range blocking {
		if !s.Blocking() {
			t.Errorf("expected %s to block its window", s)
		}
	}
	for _, s := range []Status{StatusCancelled, StatusNoShow} {
		if s.Blocking() {
			t.Errorf("expected %s not to block its window", s)
		}
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusNoShow.Valid() {
		t.Error("expected no_show to be a valid status")
	}
	if Status("rescheduled").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}
