package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bouncegame/bounce/src/domain/leaderboard"
	"github.com/bouncegame/bounce/src/domain/shared"
)

// FileRepository implements leaderboard.Repository as one indented JSON
// document on disk. Writes go to a sibling temp file that is renamed over
// the original.
type FileRepository struct {
	Path string
}

// NewFileRepository creates a repository backed by the file at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{Path: path}
}

// Init writes empty when the file does not exist yet.
func (r *FileRepository) Init(ctx context.Context, empty *leaderboard.Board) error {
	_, err := os.Stat(r.Path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", r.Path, err)
	}
	return r.Save(ctx, empty)
}

// Load reads and decodes the whole board.
func (r *FileRepository) Load(ctx context.Context) (*leaderboard.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, r.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.Path, err)
	}

	var board leaderboard.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.Path, err)
	}
	if board.Scores == nil {
		board.Scores = []leaderboard.ScoreRecord{}
	}
	return &board, nil
}

// Save replaces the file with board.
func (r *FileRepository) Save(ctx context.Context, board *leaderboard.Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}
	if dir := filepath.Dir(r.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	tmp := r.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", r.Path, err)
	}
	return nil
}
