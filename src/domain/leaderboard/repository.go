package leaderboard

import "context"

// Repository persists the whole board as a single document.
type Repository interface {
	// Init stores empty when nothing has been persisted yet. It never
	// overwrites an existing board.
	Init(ctx context.Context, empty *Board) error
	Load(ctx context.Context) (*Board, error)
	Save(ctx context.Context, board *Board) error
}
