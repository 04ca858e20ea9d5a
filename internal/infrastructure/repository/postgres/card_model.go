package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
)

type cardTableModel struct {
	ID            string `db:"id"`
	PlayerID      string `db:"player_id"`
	Rarity        string `db:"rarity"`
	BaseContracts int    `db:"base_contracts"`
	BaseSellValue int64  `db:"base_sell_value"`
	Enabled       bool   `db:"enabled"`
}

func cardFromRow(row cardTableModel) card.Card {
	return card.Card{
		ID:            row.ID,
		PlayerID:      row.PlayerID,
		Rarity:        card.Rarity(row.Rarity),
		BaseContracts: row.BaseContracts,
		BaseSellValue: row.BaseSellValue,
		Enabled:       row.Enabled,
	}
}

type userCardTableModel struct {
	ID                 string    `db:"id"`
	TeamID             string    `db:"team_id"`
	CardID             string    `db:"card_id"`
	PlayerID           string    `db:"player_id"`
	RemainingContracts int       `db:"remaining_contracts"`
	CurrentSellValue   int64     `db:"current_sell_value"`
	CurrentRarity      string    `db:"current_rarity"`
	TotalFantasyPoints float64   `db:"total_fantasy_points"`
	Status             string    `db:"status"`
	AcquiredAt         time.Time `db:"acquired_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func userCardFromRow(row userCardTableModel) card.UserCard {
	return card.UserCard{
		ID:                 row.ID,
		TeamID:             row.TeamID,
		CardID:             row.CardID,
		PlayerID:           row.PlayerID,
		RemainingContracts: row.RemainingContracts,
		CurrentSellValue:   row.CurrentSellValue,
		CurrentRarity:      card.Rarity(row.CurrentRarity),
		TotalFantasyPoints: row.TotalFantasyPoints,
		Status:             card.Status(row.Status),
		AcquiredAt:         row.AcquiredAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

type userCardInsertModel struct {
	ID                 string    `db:"id"`
	TeamID             string    `db:"team_id"`
	CardID             string    `db:"card_id"`
	PlayerID           string    `db:"player_id"`
	RemainingContracts int       `db:"remaining_contracts"`
	CurrentSellValue   int64     `db:"current_sell_value"`
	CurrentRarity      string    `db:"current_rarity"`
	TotalFantasyPoints float64   `db:"total_fantasy_points"`
	Status             string    `db:"status"`
	AcquiredAt         time.Time `db:"acquired_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}
