package leaderboard

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bouncegame/bounce/src/domain/leaderboard"
	"github.com/bouncegame/bounce/src/domain/shared"
)

// MemoryRepository implements leaderboard.Repository using in-memory storage.
// The board is kept encoded so callers never share slices with the store.
type MemoryRepository struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryRepository creates an empty, uninitialized repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Init stores empty unless a board is already present.
func (r *MemoryRepository) Init(ctx context.Context, empty *leaderboard.Board) error {
	data, err := json.Marshal(empty)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data == nil {
		r.data = data
	}
	return nil
}

// Load decodes a fresh copy of the stored board.
func (r *MemoryRepository) Load(ctx context.Context) (*leaderboard.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.data == nil {
		return nil, shared.ErrNotFound
	}
	var board leaderboard.Board
	if err := json.Unmarshal(r.data, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// Save stores board.
func (r *MemoryRepository) Save(ctx context.Context, board *leaderboard.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = data
	return nil
}

// SetRaw replaces the stored document with raw bytes, valid or not.
func (r *MemoryRepository) SetRaw(raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append([]byte(nil), raw...)
}
