package team

import (
	"fmt"
	"time"
)

// Team is a user-owned club holding the coin balance. Balance is mutated
// only through ledger operations; nothing else may touch Coins.
type Team struct {
	ID        string
	UserID    string
	Name      string
	Coins     int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("team user id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Coins < 0 {
		return fmt.Errorf("team coins cannot be negative")
	}

	return nil
}

// OwnedBy reports whether the authenticated user owns this team.
func (t Team) OwnedBy(userID string) bool {
	return t.UserID != "" && t.UserID == userID
}
