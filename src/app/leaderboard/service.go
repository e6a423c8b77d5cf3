package leaderboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	domain "github.com/bouncegame/bounce/src/domain/leaderboard"
	"github.com/bouncegame/bounce/src/domain/shared"
)

type Repository interface {
	domain.Repository
}

// Service coordinates leaderboard submissions and queries over a single
// persisted board.
type Service struct {
	Repo   Repository
	Clock  func() time.Time
	Logger *zap.Logger

	// mu serializes load+append+save so concurrent submissions do not drop
	// each other's records.
	mu        sync.Mutex
	fallbacks atomic.Int64
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Repo:   repo,
		Clock:  func() time.Time { return time.Now().UTC() },
		Logger: logger,
	}
}

// Initialize persists an empty board unless one already exists.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.Repo.Init(ctx, domain.NewBoard(s.Clock())); err != nil {
		return fmt.Errorf("initialize leaderboard: %w", err)
	}
	return nil
}

// Load returns the persisted board. Read and decode failures fall back to an
// empty board so the service stays available with a missing or corrupt store.
func (s *Service) Load(ctx context.Context) *domain.Board {
	board, err := s.Repo.Load(ctx)
	if err != nil || board == nil {
		s.fallbacks.Inc()
		s.Logger.Warn("leaderboard unreadable, using empty board", zap.Error(err))
		return domain.NewBoard(s.Clock())
	}
	if board.Scores == nil {
		board.Scores = []domain.ScoreRecord{}
	}
	return board
}

// Fallbacks counts how many loads degraded to an empty board.
func (s *Service) Fallbacks() int64 {
	return s.fallbacks.Load()
}

type SubmitCommand struct {
	PlayerName shared.PlayerName
	// Score is the textual form of the submitted score, nil when absent.
	Score *string
	Type  shared.ScoreType
}

type SubmitResult struct {
	Acknowledged bool
	Record       domain.ScoreRecord
}

// Submit validates cmd and appends one record to the board. Validation
// failures leave the store untouched; save failures are returned wrapped.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (SubmitResult, error) {
	now := s.Clock()
	submission := domain.ScoreSubmission{
		PlayerName:  cmd.PlayerName,
		Score:       cmd.Score,
		Type:        cmd.Type,
		SubmittedAt: now,
	}
	record, err := submission.Record()
	if err != nil {
		return SubmitResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	board := s.Load(ctx)
	board.Append(record, now)
	if err := s.Repo.Save(ctx, board); err != nil {
		return SubmitResult{}, fmt.Errorf("save leaderboard: %w", err)
	}

	s.Logger.Debug("score recorded",
		zap.String("player", string(record.PlayerName)),
		zap.Int64("score", record.Score),
		zap.String("type", string(record.Type)),
	)
	return SubmitResult{Acknowledged: true, Record: record}, nil
}

type QueryCommand struct {
	Type shared.ScoreType
}

// Query returns the top records for cmd.Type, or across all types when the
// type is empty or "all".
func (s *Service) Query(ctx context.Context, cmd QueryCommand) []domain.ScoreRecord {
	return s.Load(ctx).Query(cmd.Type)
}
