package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/pack"
	"github.com/riskibarqy/fantasy-cards/internal/domain/player"
	"github.com/riskibarqy/fantasy-cards/internal/domain/stats"
	"github.com/riskibarqy/fantasy-cards/internal/domain/team"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
	"github.com/riskibarqy/fantasy-cards/internal/domain/week"
)

const SeedSeason = 2025

func SeedTeams() []team.Team {
	created := time.Date(SeedSeason, time.August, 20, 9, 0, 0, 0, time.UTC)
	return []team.Team{
		{ID: "team-demo-01", UserID: "user-demo-01", Name: "Hale Storm", Coins: 1000, Active: true, CreatedAt: created, UpdatedAt: created},
		{ID: "team-demo-02", UserID: "user-demo-02", Name: "Gridiron Collective", Coins: 500, Active: true, CreatedAt: created, UpdatedAt: created},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "nfl-qb-01", Name: "Marcus Hale", Position: player.PositionQuarterback, TeamName: "Austin Stampede", PlayerRefID: 10001},
		{ID: "nfl-qb-02", Name: "Devon Whitfield", Position: player.PositionQuarterback, TeamName: "Portland Breakers", PlayerRefID: 10002},
		{ID: "nfl-rb-01", Name: "Tariq Bellamy", Position: player.PositionRunningBack, TeamName: "Austin Stampede", PlayerRefID: 10101},
		{ID: "nfl-rb-02", Name: "Cole Redmond", Position: player.PositionRunningBack, TeamName: "Memphis Kings", PlayerRefID: 10102},
		{ID: "nfl-rb-03", Name: "Jaylen Okafor", Position: player.PositionRunningBack, TeamName: "Portland Breakers", PlayerRefID: 10103},
		{ID: "nfl-wr-01", Name: "Elias Vance", Position: player.PositionWideReceiver, TeamName: "Memphis Kings", PlayerRefID: 10201},
		{ID: "nfl-wr-02", Name: "Rashad Pemberton", Position: player.PositionWideReceiver, TeamName: "Austin Stampede", PlayerRefID: 10202},
		{ID: "nfl-wr-03", Name: "Dante Larrabee", Position: player.PositionWideReceiver, TeamName: "Portland Breakers", PlayerRefID: 10203},
		{ID: "nfl-te-01", Name: "Gunnar Holt", Position: player.PositionTightEnd, TeamName: "Memphis Kings", PlayerRefID: 10301},
		{ID: "nfl-te-02", Name: "Silas Marchetti", Position: player.PositionTightEnd, TeamName: "Austin Stampede", PlayerRefID: 10302},
		{ID: "nfl-k-01", Name: "Brennan Oyelaran", Position: player.PositionKicker, TeamName: "Portland Breakers", PlayerRefID: 10401},
		{ID: "nfl-def-01", Name: "Memphis Kings Defense", Position: player.PositionDefense, TeamName: "Memphis Kings", PlayerRefID: 10501},
	}
}

func SeedWeeks() []week.Week {
	// Week 1 starts the first Thursday of September; lineups lock at
	// Sunday kickoff.
	seasonStart := time.Date(SeedSeason, time.September, 4, 0, 0, 0, 0, time.UTC)
	weeks := make([]week.Week, 0, 18)
	for number := 1; number <= 18; number++ {
		start := seasonStart.AddDate(0, 0, (number-1)*7)
		weeks = append(weeks, week.Week{
			ID:      fmt.Sprintf("%d-w%02d", SeedSeason, number),
			Season:  SeedSeason,
			Number:  number,
			StartAt: start,
			LockAt:  start.AddDate(0, 0, 3).Add(17 * time.Hour),
			EndAt:   start.AddDate(0, 0, 5),
		})
	}
	return weeks
}

func SeedCards() []card.Card {
	return []card.Card{
		{ID: "card-qb-01", PlayerID: "nfl-qb-01", Rarity: card.RarityRare, BaseContracts: 8, BaseSellValue: 120, Enabled: true},
		{ID: "card-qb-02", PlayerID: "nfl-qb-02", Rarity: card.RarityUncommon, BaseContracts: 10, BaseSellValue: 80, Enabled: true},
		{ID: "card-rb-01", PlayerID: "nfl-rb-01", Rarity: card.RarityEpic, BaseContracts: 6, BaseSellValue: 200, Enabled: true},
		{ID: "card-rb-02", PlayerID: "nfl-rb-02", Rarity: card.RarityCommon, BaseContracts: 12, BaseSellValue: 40, Enabled: true},
		{ID: "card-rb-03", PlayerID: "nfl-rb-03", Rarity: card.RarityCommon, BaseContracts: 12, BaseSellValue: 40, Enabled: true},
		{ID: "card-wr-01", PlayerID: "nfl-wr-01", Rarity: card.RarityLegendary, BaseContracts: 5, BaseSellValue: 350, Enabled: true},
		{ID: "card-wr-02", PlayerID: "nfl-wr-02", Rarity: card.RarityUncommon, BaseContracts: 10, BaseSellValue: 75, Enabled: true},
		{ID: "card-wr-03", PlayerID: "nfl-wr-03", Rarity: card.RarityCommon, BaseContracts: 12, BaseSellValue: 35, Enabled: true},
		{ID: "card-te-01", PlayerID: "nfl-te-01", Rarity: card.RarityRare, BaseContracts: 8, BaseSellValue: 110, Enabled: true},
		{ID: "card-te-02", PlayerID: "nfl-te-02", Rarity: card.RarityCommon, BaseContracts: 12, BaseSellValue: 30, Enabled: true},
		{ID: "card-k-01", PlayerID: "nfl-k-01", Rarity: card.RarityCommon, BaseContracts: 12, BaseSellValue: 25, Enabled: true},
		{ID: "card-def-01", PlayerID: "nfl-def-01", Rarity: card.RarityUncommon, BaseContracts: 10, BaseSellValue: 60, Enabled: true},
	}
}

func SeedTokenTypes() []token.TokenType {
	return []token.TokenType{
		{
			ID:        "token-century-rush",
			Name:      "Century Rush",
			Rarity:    card.RarityUncommon,
			Condition: token.Condition{Type: token.ConditionStat, Metric: "rushing_yards", Op: token.OpGTE, Value: 100},
			Reward:    token.Reward{Type: token.RewardPoints, Value: 5},
			MaxUses:   3,
			Enabled:   true,
		},
		{
			ID:        "token-victory-lap",
			Name:      "Victory Lap",
			Rarity:    card.RarityRare,
			Condition: token.Condition{Type: token.ConditionTeamResult, Result: token.ResultWin},
			Reward:    token.Reward{Type: token.RewardMultiplier, Value: 1.5},
			MaxUses:   2,
			Enabled:   true,
		},
		{
			ID:        "token-triple-threat",
			Name:      "Triple Threat",
			Rarity:    card.RarityEpic,
			Condition: token.Condition{Type: token.ConditionStat, Metric: "receiving_touchdowns", Op: token.OpGTE, Value: 2},
			Reward:    token.Reward{Type: token.RewardMultiplier, Value: 2},
			MaxUses:   1,
			Enabled:   true,
		},
	}
}

func SeedPacks() []pack.Pack {
	return []pack.Pack{
		{
			ID:         "pack-starter",
			Name:       "Starter Pack",
			PriceCoins: 100,
			Enabled:    true,
			Contents: []pack.SlotSchema{
				{Type: pack.SlotCard, Count: 3, RarityWeights: map[card.Rarity]float64{
					card.RarityCommon:   70,
					card.RarityUncommon: 25,
					card.RarityRare:     5,
				}},
				{Type: pack.SlotCoins, CoinAmount: 25},
			},
		},
		{
			ID:         "pack-premium",
			Name:       "Premium Pack",
			PriceCoins: 350,
			Enabled:    true,
			Contents: []pack.SlotSchema{
				{Type: pack.SlotCard, Count: 4, RarityWeights: map[card.Rarity]float64{
					card.RarityUncommon:  50,
					card.RarityRare:      35,
					card.RarityEpic:      12,
					card.RarityLegendary: 3,
				}},
				{Type: pack.SlotToken, Count: 1, RarityWeights: map[card.Rarity]float64{
					card.RarityUncommon: 60,
					card.RarityRare:     30,
					card.RarityEpic:     10,
				}},
			},
		},
	}
}

func SeedGameStats() []stats.PlayerGameStats {
	win := token.ResultWin
	loss := token.ResultLoss
	played := time.Date(SeedSeason, time.September, 7, 17, 0, 0, 0, time.UTC)
	weekID := fmt.Sprintf("%d-w01", SeedSeason)
	return []stats.PlayerGameStats{
		{
			PlayerID:  "nfl-qb-01",
			WeekID:    weekID,
			GameRefID: 50001,
			Metrics: map[string]float64{
				stats.MetricPassingYards:         312,
				stats.MetricPassingTouchdowns:    3,
				stats.MetricPassingInterceptions: 1,
				stats.MetricRushingYards:         18,
			},
			TeamResult: &win,
			Finalized:  true,
			PlayedAt:   played,
		},
		{
			PlayerID:  "nfl-rb-01",
			WeekID:    weekID,
			GameRefID: 50001,
			Metrics: map[string]float64{
				stats.MetricRushingYards:      104,
				stats.MetricRushingTouchdowns: 1,
				stats.MetricReceptions:        4,
				stats.MetricReceivingYards:    31,
			},
			TeamResult: &win,
			Finalized:  true,
			PlayedAt:   played,
		},
		{
			PlayerID:  "nfl-wr-01",
			WeekID:    weekID,
			GameRefID: 50002,
			Metrics: map[string]float64{
				stats.MetricReceptions:          9,
				stats.MetricReceivingYards:      142,
				stats.MetricReceivingTouchdowns: 2,
			},
			TeamResult: &loss,
			Finalized:  true,
			PlayedAt:   played,
		},
		{
			PlayerID:  "nfl-te-01",
			WeekID:    weekID,
			GameRefID: 50002,
			Metrics: map[string]float64{
				stats.MetricReceptions:     5,
				stats.MetricReceivingYards: 58,
				stats.MetricFumblesLost:    1,
			},
			TeamResult: &loss,
			Finalized:  true,
			PlayedAt:   played,
		},
	}
}
