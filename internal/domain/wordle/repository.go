package wordle

import "context"

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	// FindPlayer returns ErrPlayerNotFound when no record exists.
	FindPlayer(ctx context.Context, id string) (*Player, error)
	// SavePlayer upserts by player ID if the stored version still equals
	// player.Version, then advances player.Version. A record written by
	// someone else in between yields ErrStaleWrite.
	SavePlayer(ctx context.Context, player *Player) error
	// ListPlayers returns every player sorted descending by field.
	ListPlayers(ctx context.Context, sortBy ScoreField) ([]*Player, error)
	// LoadMeta returns ErrMetaNotFound when the singleton is missing.
	LoadMeta(ctx context.Context) (PeriodMeta, error)
	SaveMeta(ctx context.Context, meta PeriodMeta) error
}
