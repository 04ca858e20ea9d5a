package week

import (
	"fmt"
	"time"
)

// Status is derived from the current time against the week boundaries,
// never stored.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusLocked    Status = "locked"
	StatusCompleted Status = "completed"
)

// Week is a scoring period. Invariant: StartAt < LockAt < EndAt.
type Week struct {
	ID      string
	Season  int
	Number  int
	StartAt time.Time
	LockAt  time.Time
	EndAt   time.Time
}

func (w Week) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("week id is required")
	}
	if w.Number <= 0 {
		return fmt.Errorf("week number must be greater than zero")
	}
	if !w.StartAt.Before(w.LockAt) || !w.LockAt.Before(w.EndAt) {
		return fmt.Errorf("week boundaries must satisfy start < lock < end")
	}
	return nil
}

func (w Week) StatusAt(now time.Time) Status {
	switch {
	case now.Before(w.StartAt):
		return StatusUpcoming
	case now.Before(w.LockAt):
		return StatusActive
	case now.Before(w.EndAt):
		return StatusLocked
	default:
		return StatusCompleted
	}
}

// LockedAt reports whether lineup submission is closed.
func (w Week) LockedAt(now time.Time) bool {
	return !now.Before(w.LockAt)
}
