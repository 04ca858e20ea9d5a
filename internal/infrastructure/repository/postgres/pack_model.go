package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/pack"
)

type packTableModel struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	PriceCoins int64  `db:"price_coins"`
	Contents   []byte `db:"contents"`
	Enabled    bool   `db:"enabled"`
}

type packSlotJSON struct {
	Type          string             `json:"type"`
	Count         int                `json:"count,omitempty"`
	RarityWeights map[string]float64 `json:"rarity_weights,omitempty"`
	CoinAmount    int64              `json:"coin_amount,omitempty"`
}

func packFromRow(row packTableModel) (pack.Pack, error) {
	var slots []packSlotJSON
	if err := sonic.Unmarshal(row.Contents, &slots); err != nil {
		return pack.Pack{}, fmt.Errorf("unmarshal pack contents %s: %w", row.ID, err)
	}

	contents := make([]pack.SlotSchema, 0, len(slots))
	for _, slot := range slots {
		schema := pack.SlotSchema{
			Type:       pack.SlotType(slot.Type),
			Count:      slot.Count,
			CoinAmount: slot.CoinAmount,
		}
		if len(slot.RarityWeights) > 0 {
			schema.RarityWeights = make(map[card.Rarity]float64, len(slot.RarityWeights))
			for rarity, weight := range slot.RarityWeights {
				schema.RarityWeights[card.Rarity(rarity)] = weight
			}
		}
		contents = append(contents, schema)
	}

	return pack.Pack{
		ID:         row.ID,
		Name:       row.Name,
		PriceCoins: row.PriceCoins,
		Contents:   contents,
		Enabled:    row.Enabled,
	}, nil
}

type userPackTableModel struct {
	ID          string     `db:"id"`
	TeamID      string     `db:"team_id"`
	PackID      string     `db:"pack_id"`
	Status      string     `db:"status"`
	PurchasedAt time.Time  `db:"purchased_at"`
	OpenedAt    *time.Time `db:"opened_at"`
}

func userPackFromRow(row userPackTableModel) pack.UserPack {
	return pack.UserPack{
		ID:          row.ID,
		TeamID:      row.TeamID,
		PackID:      row.PackID,
		Status:      pack.Status(row.Status),
		PurchasedAt: row.PurchasedAt,
		OpenedAt:    row.OpenedAt,
	}
}

type userPackInsertModel struct {
	ID          string    `db:"id"`
	TeamID      string    `db:"team_id"`
	PackID      string    `db:"pack_id"`
	Status      string    `db:"status"`
	PurchasedAt time.Time `db:"purchased_at"`
}
