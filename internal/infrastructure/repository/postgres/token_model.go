package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
	"github.com/riskibarqy/fantasy-cards/internal/domain/token"
)

type tokenTypeTableModel struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Rarity    string `db:"rarity"`
	Condition []byte `db:"condition"`
	Reward    []byte `db:"reward"`
	MaxUses   int    `db:"max_uses"`
	Enabled   bool   `db:"enabled"`
}

type tokenConditionJSON struct {
	Type   string  `json:"type"`
	Metric string  `json:"metric,omitempty"`
	Op     string  `json:"op,omitempty"`
	Value  float64 `json:"value,omitempty"`
	Result string  `json:"result,omitempty"`
}

type tokenRewardJSON struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

func tokenTypeFromRow(row tokenTypeTableModel) (token.TokenType, error) {
	var condition tokenConditionJSON
	if err := sonic.Unmarshal(row.Condition, &condition); err != nil {
		return token.TokenType{}, fmt.Errorf("unmarshal token condition %s: %w", row.ID, err)
	}
	var reward tokenRewardJSON
	if err := sonic.Unmarshal(row.Reward, &reward); err != nil {
		return token.TokenType{}, fmt.Errorf("unmarshal token reward %s: %w", row.ID, err)
	}

	return token.TokenType{
		ID:     row.ID,
		Name:   row.Name,
		Rarity: card.Rarity(row.Rarity),
		Condition: token.Condition{
			Type:   token.ConditionType(condition.Type),
			Metric: condition.Metric,
			Op:     token.Operator(condition.Op),
			Value:  condition.Value,
			Result: token.GameResult(condition.Result),
		},
		Reward: token.Reward{
			Type:  token.RewardType(reward.Type),
			Value: reward.Value,
		},
		MaxUses: row.MaxUses,
		Enabled: row.Enabled,
	}, nil
}

type userTokenTableModel struct {
	ID            string    `db:"id"`
	TeamID        string    `db:"team_id"`
	TokenTypeID   string    `db:"token_type_id"`
	UsesRemaining int       `db:"uses_remaining"`
	AcquiredAt    time.Time `db:"acquired_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func userTokenFromRow(row userTokenTableModel) token.UserToken {
	return token.UserToken{
		ID:            row.ID,
		TeamID:        row.TeamID,
		TokenTypeID:   row.TokenTypeID,
		UsesRemaining: row.UsesRemaining,
		AcquiredAt:    row.AcquiredAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

type userTokenInsertModel struct {
	ID            string    `db:"id"`
	TeamID        string    `db:"team_id"`
	TokenTypeID   string    `db:"token_type_id"`
	UsesRemaining int       `db:"uses_remaining"`
	AcquiredAt    time.Time `db:"acquired_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
