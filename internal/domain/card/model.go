package card

import (
	"fmt"
	"time"
)

// Rarity orders card tiers from most to least common.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

var AllRarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
}

func IsValidRarity(r Rarity) bool {
	for _, known := range AllRarities {
		if known == r {
			return true
		}
	}
	return false
}

// Status is the lifecycle state of an owned card instance.
type Status string

const (
	StatusOwned Status = "owned"
	StatusSold  Status = "sold"
)

// Card is an immutable catalog template referencing one player.
type Card struct {
	ID            string
	PlayerID      string
	Rarity        Rarity
	BaseContracts int
	BaseSellValue int64
	Enabled       bool
}

func (c Card) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("card id is required")
	}
	if c.PlayerID == "" {
		return fmt.Errorf("card player id is required")
	}
	if !IsValidRarity(c.Rarity) {
		return fmt.Errorf("invalid card rarity: %s", c.Rarity)
	}
	if c.BaseContracts <= 0 {
		return fmt.Errorf("card base contracts must be greater than zero")
	}
	if c.BaseSellValue < 0 {
		return fmt.Errorf("card base sell value cannot be negative")
	}

	return nil
}

// UserCard is a card instance owned by exactly one team. CurrentRarity
// always starts at the lowest evolution tier regardless of the catalog
// rarity: evolution is performance-driven, not roll-driven. Once Status
// is sold the record is immutable.
type UserCard struct {
	ID                 string
	TeamID             string
	CardID             string
	PlayerID           string
	RemainingContracts int
	CurrentSellValue   int64
	CurrentRarity      Rarity
	TotalFantasyPoints float64
	Status             Status
	AcquiredAt         time.Time
	UpdatedAt          time.Time
}

// Usable reports whether the card can be placed in a lineup slot.
func (c UserCard) Usable() bool {
	return c.Status == StatusOwned && c.RemainingContracts > 0
}

// NewUserCard mints an instance at the template's base values.
func NewUserCard(id, teamID string, template Card, now time.Time) UserCard {
	return UserCard{
		ID:                 id,
		TeamID:             teamID,
		CardID:             template.ID,
		PlayerID:           template.PlayerID,
		RemainingContracts: template.BaseContracts,
		CurrentSellValue:   template.BaseSellValue,
		CurrentRarity:      LowestEvolutionTier(),
		Status:             StatusOwned,
		AcquiredAt:         now,
		UpdatedAt:          now,
	}
}
