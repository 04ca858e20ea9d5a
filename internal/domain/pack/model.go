package pack

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
)

// SlotType selects what a contents-schema slot yields.
type SlotType string

const (
	SlotCard  SlotType = "card"
	SlotToken SlotType = "token"
	SlotCoins SlotType = "coins"
)

// SlotSchema is one ordered slot of a pack's contents schema. Weights are
// non-negative and need not sum to 1. Count defaults to 1.
type SlotSchema struct {
	Type          SlotType
	Count         int
	RarityWeights map[card.Rarity]float64
	CoinAmount    int64
}

func (s SlotSchema) Units() int {
	if s.Count <= 0 {
		return 1
	}
	return s.Count
}

func (s SlotSchema) Validate() error {
	switch s.Type {
	case SlotCard, SlotToken:
		if len(s.RarityWeights) == 0 {
			return fmt.Errorf("slot rarity weights are required")
		}
		for rarity, weight := range s.RarityWeights {
			if !card.IsValidRarity(rarity) {
				return fmt.Errorf("invalid slot rarity: %s", rarity)
			}
			if weight < 0 {
				return fmt.Errorf("slot rarity weight cannot be negative: %s", rarity)
			}
		}
	case SlotCoins:
		if s.CoinAmount <= 0 {
			return fmt.Errorf("coin slot amount must be greater than zero")
		}
	default:
		return fmt.Errorf("invalid slot type: %s", s.Type)
	}
	return nil
}

// Pack is an immutable catalog template.
type Pack struct {
	ID         string
	Name       string
	PriceCoins int64
	Contents   []SlotSchema
	Enabled    bool
}

func (p Pack) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pack id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("pack name is required")
	}
	if p.PriceCoins < 0 {
		return fmt.Errorf("pack price cannot be negative")
	}
	if len(p.Contents) == 0 {
		return fmt.Errorf("pack contents schema is required")
	}
	for _, slot := range p.Contents {
		if err := slot.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UserPack status transitions unopened -> opened exactly once.
type Status string

const (
	StatusUnopened Status = "unopened"
	StatusOpened   Status = "opened"
)

// UserPack is a purchased pack instance owned by a team.
type UserPack struct {
	ID          string
	TeamID      string
	PackID      string
	Status      Status
	PurchasedAt time.Time
	OpenedAt    *time.Time
}
