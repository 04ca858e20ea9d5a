package token

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
)

// ConditionType selects which predicate family a token condition uses.
type ConditionType string

const (
	ConditionStat       ConditionType = "stat"
	ConditionTeamResult ConditionType = "team_result"
)

// Operator is a numeric comparison used by stat conditions.
type Operator string

const (
	OpGTE Operator = ">="
	OpLTE Operator = "<="
	OpEQ  Operator = "=="
	OpGT  Operator = ">"
	OpLT  Operator = "<"
)

var AllOperators = map[Operator]struct{}{
	OpGTE: {},
	OpLTE: {},
	OpEQ:  {},
	OpGT:  {},
	OpLT:  {},
}

// GameResult is the outcome of the card player's real-world game.
type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultTie  GameResult = "tie"
)

// Condition gates a token's reward. Stat conditions compare one metric of
// the slot player's game line; team-result conditions compare the game
// outcome. A missing metric reads as 0; an unknown game outcome never
// satisfies a team-result condition.
type Condition struct {
	Type   ConditionType
	Metric string
	Op     Operator
	Value  float64
	Result GameResult
}

func (c Condition) Validate() error {
	switch c.Type {
	case ConditionStat:
		if c.Metric == "" {
			return fmt.Errorf("stat condition metric is required")
		}
		if _, ok := AllOperators[c.Op]; !ok {
			return fmt.Errorf("invalid stat condition operator: %s", c.Op)
		}
	case ConditionTeamResult:
		switch c.Result {
		case ResultWin, ResultLoss, ResultTie:
		default:
			return fmt.Errorf("invalid team result: %s", c.Result)
		}
	default:
		return fmt.Errorf("invalid condition type: %s", c.Type)
	}
	return nil
}

// RewardType selects how a satisfied token adjusts slot points.
type RewardType string

const (
	RewardPoints     RewardType = "points"
	RewardMultiplier RewardType = "multiplier"
)

// Reward is the point adjustment granted when the condition holds.
type Reward struct {
	Type  RewardType
	Value float64
}

func (r Reward) Validate() error {
	switch r.Type {
	case RewardPoints:
	case RewardMultiplier:
		if r.Value < 0 {
			return fmt.Errorf("multiplier reward cannot be negative")
		}
	default:
		return fmt.Errorf("invalid reward type: %s", r.Type)
	}
	return nil
}

// TokenType is an immutable catalog template for conditional bonuses.
type TokenType struct {
	ID        string
	Name      string
	Rarity    card.Rarity
	Condition Condition
	Reward    Reward
	MaxUses   int
	Enabled   bool
}

func (t TokenType) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("token type id is required")
	}
	if !card.IsValidRarity(t.Rarity) {
		return fmt.Errorf("invalid token rarity: %s", t.Rarity)
	}
	if t.MaxUses <= 0 {
		return fmt.Errorf("token max uses must be greater than zero")
	}
	if err := t.Condition.Validate(); err != nil {
		return err
	}
	return t.Reward.Validate()
}

// UserToken is a team-owned token instance. UsesRemaining decrements once
// per successful application and the record is immutable at 0.
type UserToken struct {
	ID            string
	TeamID        string
	TokenTypeID   string
	UsesRemaining int
	AcquiredAt    time.Time
	UpdatedAt     time.Time
}

func (t UserToken) Usable() bool {
	return t.UsesRemaining > 0
}
