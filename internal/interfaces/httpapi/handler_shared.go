package httpapi

import (
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-cards/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-cards/internal/domain/pack"
	"github.com/riskibarqy/fantasy-cards/internal/domain/team"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	"github.com/riskibarqy/fantasy-cards/internal/domain/trend"
	"github.com/riskibarqy/fantasy-cards/internal/domain/week"
)

type teamDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Coins  int64  `json:"coins"`
	Active bool   `json:"active"`
}

func teamToDTO(item team.Team) teamDTO {
	return teamDTO{ID: item.ID, Name: item.Name, Coins: item.Coins, Active: item.Active}
}

type userPackDTO struct {
	ID          string     `json:"id"`
	PackID      string     `json:"pack_id"`
	Status      string     `json:"status"`
	PurchasedAt time.Time  `json:"purchased_at"`
	OpenedAt    *time.Time `json:"opened_at,omitempty"`
}

func userPackToDTO(item pack.UserPack) userPackDTO {
	return userPackDTO{
		ID:          item.ID,
		PackID:      item.PackID,
		Status:      string(item.Status),
		PurchasedAt: item.PurchasedAt,
		OpenedAt:    item.OpenedAt,
	}
}

type userCardDTO struct {
	ID                 string    `json:"id"`
	CardID             string    `json:"card_id"`
	PlayerID           string    `json:"player_id"`
	RemainingContracts int       `json:"remaining_contracts"`
	CurrentSellValue   int64     `json:"current_sell_value"`
	CurrentRarity      string    `json:"current_rarity"`
	TotalFantasyPoints float64   `json:"total_fantasy_points"`
	Status             string    `json:"status"`
	AcquiredAt         time.Time `json:"acquired_at"`
}

func userCardToDTO(item card.UserCard) userCardDTO {
	return userCardDTO{
		ID:                 item.ID,
		CardID:             item.CardID,
		PlayerID:           item.PlayerID,
		RemainingContracts: item.RemainingContracts,
		CurrentSellValue:   item.CurrentSellValue,
		CurrentRarity:      string(item.CurrentRarity),
		TotalFantasyPoints: item.TotalFantasyPoints,
		Status:             string(item.Status),
		AcquiredAt:         item.AcquiredAt,
	}
}

type userTokenDTO struct {
	ID            string    `json:"id"`
	TokenTypeID   string    `json:"token_type_id"`
	UsesRemaining int       `json:"uses_remaining"`
	AcquiredAt    time.Time `json:"acquired_at"`
}

func userTokenToDTO(item token.UserToken) userTokenDTO {
	return userTokenDTO{
		ID:            item.ID,
		TokenTypeID:   item.TokenTypeID,
		UsesRemaining: item.UsesRemaining,
		AcquiredAt:    item.AcquiredAt,
	}
}

type transactionDTO struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Amount         int64     `json:"amount"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	Reference      string    `json:"reference,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func transactionToDTO(item ledger.Transaction) transactionDTO {
	return transactionDTO{
		ID:             item.ID,
		Type:           string(item.Type),
		Amount:         item.Amount,
		IdempotencyKey: item.IdempotencyKey,
		Reference:      item.Reference,
		CreatedAt:      item.CreatedAt,
	}
}

type packCatalogDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCoins int64  `json:"price_coins"`
}

func packCatalogToDTO(item pack.Pack) packCatalogDTO {
	return packCatalogDTO{ID: item.ID, Name: item.Name, PriceCoins: item.PriceCoins}
}

type lineupSlotDTO struct {
	Position       string  `json:"position"`
	UserCardID     string  `json:"user_card_id,omitempty"`
	AppliedTokenID string  `json:"applied_token_id,omitempty"`
	Points         float64 `json:"points"`
}

type lineupDTO struct {
	ID          string          `json:"id"`
	TeamID      string          `json:"team_id"`
	WeekID      string          `json:"week_id"`
	Status      string          `json:"status"`
	Slots       []lineupSlotDTO `json:"slots"`
	TotalPoints float64         `json:"total_points"`
	SubmittedAt time.Time       `json:"submitted_at"`
	ScoredAt    *time.Time      `json:"scored_at,omitempty"`
}

func lineupToDTO(item lineup.Lineup) lineupDTO {
	slots := make([]lineupSlotDTO, 0, len(item.Slots))
	for _, slot := range item.Slots {
		slots = append(slots, lineupSlotDTO{
			Position:       string(slot.Position),
			UserCardID:     slot.UserCardID,
			AppliedTokenID: slot.AppliedTokenID,
			Points:         slot.Points,
		})
	}
	return lineupDTO{
		ID:          item.ID,
		TeamID:      item.TeamID,
		WeekID:      item.WeekID,
		Status:      string(item.Status),
		Slots:       slots,
		TotalPoints: item.TotalPoints,
		SubmittedAt: item.SubmittedAt,
		ScoredAt:    item.ScoredAt,
	}
}

type trendingDTO struct {
	PlayerID    string    `json:"player_id"`
	Season      int       `json:"season"`
	Direction   string    `json:"direction"`
	Strength    int       `json:"strength"`
	SeasonAvg   float64   `json:"season_avg"`
	Last3Avg    float64   `json:"last3_avg"`
	GamesPlayed int       `json:"games_played"`
	ComputedAt  time.Time `json:"computed_at"`
}

func trendingToDTO(item trend.Trending) trendingDTO {
	return trendingDTO{
		PlayerID:    item.PlayerID,
		Season:      item.Season,
		Direction:   string(item.Direction),
		Strength:    item.Strength,
		SeasonAvg:   item.SeasonAvg,
		Last3Avg:    item.Last3Avg,
		GamesPlayed: item.GamesPlayed,
		ComputedAt:  item.ComputedAt,
	}
}

type weekDTO struct {
	ID      string    `json:"id"`
	Season  int       `json:"season"`
	Number  int       `json:"number"`
	StartAt time.Time `json:"start_at"`
	LockAt  time.Time `json:"lock_at"`
	EndAt   time.Time `json:"end_at"`
	Status  string    `json:"status"`
}

func weekToDTO(item week.Week, now time.Time) weekDTO {
	return weekDTO{
		ID:      item.ID,
		Season:  item.Season,
		Number:  item.Number,
		StartAt: item.StartAt,
		LockAt:  item.LockAt,
		EndAt:   item.EndAt,
		Status:  string(item.StatusAt(now)),
	}
}
