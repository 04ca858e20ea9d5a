package pack

import "context"

// CatalogRepository reads immutable pack templates.
type CatalogRepository interface {
	GetByID(ctx context.Context, packID string) (Pack, bool, error)
	ListEnabled(ctx context.Context) ([]Pack, error)
}

// UserPackRepository persists purchased pack instances. MarkOpened flips
// status unopened -> opened and fails if the pack is already opened, which
// is what makes opening exactly-once.
type UserPackRepository interface {
	GetByID(ctx context.Context, userPackID string) (UserPack, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]UserPack, error)
	Create(ctx context.Context, item UserPack) error
	MarkOpened(ctx context.Context, userPackID string) error
}
