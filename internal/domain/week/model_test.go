package week

import (
	"testing"
	"time"
)

func sampleWeek() Week {
	base := time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC)
	return Week{
		ID:      "2025-w01",
		Season:  2025,
		Number:  1,
		StartAt: base,
		LockAt:  base.Add(72 * time.Hour),
		EndAt:   base.Add(120 * time.Hour),
	}
}

func TestStatusAt(t *testing.T) {
	w := sampleWeek()

	cases := []struct {
		name string
		at   time.Time
		want Status
	}{
		{"before start", w.StartAt.Add(-time.Hour), StatusUpcoming},
		{"after start", w.StartAt.Add(time.Hour), StatusActive},
		{"at lock", w.LockAt, StatusLocked},
		{"after end", w.EndAt, StatusCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.StatusAt(tc.at); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestLockedAt(t *testing.T) {
	w := sampleWeek()
	if w.LockedAt(w.LockAt.Add(-time.Second)) {
		t.Fatal("expected unlocked before deadline")
	}
	if !w.LockedAt(w.LockAt) {
		t.Fatal("expected locked at deadline")
	}
}

func TestValidate_Boundaries(t *testing.T) {
	w := sampleWeek()
	if err := w.Validate(); err != nil {
		t.Fatalf("expected valid week, got %v", err)
	}

	w.LockAt = w.EndAt.Add(time.Hour)
	if err := w.Validate(); err == nil {
		t.Fatal("expected boundary violation")
	}
}
