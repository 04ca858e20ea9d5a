package card

import "context"

// CatalogRepository reads immutable card templates.
type CatalogRepository interface {
	GetByID(ctx context.Context, cardID string) (Card, bool, error)
	ListEnabledByRarity(ctx context.Context, rarity Rarity) ([]Card, error)
}

// UserCardRepository persists owned card instances. ApplyEvolution writes
// the accumulator and derived fields as one update; it runs inside the
// scoring unit of work.
type UserCardRepository interface {
	GetByID(ctx context.Context, userCardID string) (UserCard, bool, error)
	GetByIDs(ctx context.Context, userCardIDs []string) ([]UserCard, error)
	ListByTeam(ctx context.Context, teamID string) ([]UserCard, error)
	CreateBatch(ctx context.Context, items []UserCard) error
	MarkSold(ctx context.Context, userCardID string) error
	ConsumeContract(ctx context.Context, userCardID string) error
	ApplyEvolution(ctx context.Context, userCardID string, result EvolutionResult) error
}
