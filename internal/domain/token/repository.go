package token

import (
	"context"

	"github.com/riskibarqy/fantasy-cards/internal/domain/card"
)

// CatalogRepository reads immutable token type templates.
type CatalogRepository interface {
	GetByID(ctx context.Context, tokenTypeID string) (TokenType, bool, error)
	ListEnabledByRarity(ctx context.Context, rarity card.Rarity) ([]TokenType, error)
}

// UserTokenRepository persists team-owned token instances. ConsumeUse
// decrements uses_remaining by one and fails if none remain.
type UserTokenRepository interface {
	GetByID(ctx context.Context, userTokenID string) (UserToken, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]UserToken, error)
	CreateBatch(ctx context.Context, items []UserToken) error
	ConsumeUse(ctx context.Context, userTokenID string) error
}
