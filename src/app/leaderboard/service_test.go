package leaderboard_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bouncegame/bounce/src/app/leaderboard"
	domain "github.com/bouncegame/bounce/src/domain/leaderboard"
	"github.com/bouncegame/bounce/src/domain/shared"
)

// Mock implementations
type mockRepo struct {
	initFunc func(ctx context.Context, empty *domain.Board) error
	loadFunc func(ctx context.Context) (*domain.Board, error)
	saveFunc func(ctx context.Context, board *domain.Board) error
}

func (m *mockRepo) Init(ctx context.Context, empty *domain.Board) error {
	if m.initFunc != nil {
		return m.initFunc(ctx, empty)
	}
	return nil
}

func (m *mockRepo) Load(ctx context.Context) (*domain.Board, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx)
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepo) Save(ctx context.Context, board *domain.Board) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, board)
	}
	return nil
}

// boardRepo keeps the last saved board in memory.
func boardRepo() (*mockRepo, func() *domain.Board) {
	var (
		mu    sync.Mutex
		saved *domain.Board
	)
	copyBoard := func(b *domain.Board) *domain.Board {
		out := *b
		out.Scores = append([]domain.ScoreRecord{}, b.Scores...)
		return &out
	}
	repo := &mockRepo{
		loadFunc: func(ctx context.Context) (*domain.Board, error) {
			mu.Lock()
			defer mu.Unlock()
			if saved == nil {
				return nil, shared.ErrNotFound
			}
			return copyBoard(saved), nil
		},
		saveFunc: func(ctx context.Context, board *domain.Board) error {
			mu.Lock()
			defer mu.Unlock()
			saved = copyBoard(board)
			return nil
		},
	}
	return repo, func() *domain.Board {
		mu.Lock()
		defer mu.Unlock()
		return saved
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func score(s string) *string { return &s }

func TestService_Initialize(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	var got *domain.Board
	repo := &mockRepo{
		initFunc: func(ctx context.Context, empty *domain.Board) error {
			got = empty
			return nil
		},
	}
	service := leaderboard.NewService(repo, nil)
	service.Clock = fixedClock(now)

	if err := service.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if got == nil || len(got.Scores) != 0 || got.LastUpdated != "2026-10-17T09:00:00.000Z" {
		t.Errorf("unexpected empty board %#v", got)
	}

	repo.initFunc = func(ctx context.Context, empty *domain.Board) error {
		return errors.New("read-only filesystem")
	}
	if err := service.Initialize(ctx); err == nil {
		t.Error("expected Initialize to surface init failure")
	}
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		cmd       leaderboard.SubmitCommand
		saveErr   error
		wantErr   error
		wantSaved bool
	}{
		{
			name:      "successful submission",
			cmd:       leaderboard.SubmitCommand{PlayerName: "Ann", Score: score("42"), Type: "speed"},
			wantSaved: true,
		},
		{
			name:    "missing player name",
			cmd:     leaderboard.SubmitCommand{Score: score("42"), Type: "speed"},
			wantErr: domain.ErrMissingFields,
		},
		{
			name:    "missing score",
			cmd:     leaderboard.SubmitCommand{PlayerName: "X", Type: "t"},
			wantErr: domain.ErrMissingFields,
		},
		{
			name:    "missing type",
			cmd:     leaderboard.SubmitCommand{PlayerName: "X", Score: score("1")},
			wantErr: domain.ErrMissingFields,
		},
		{
			name:    "non numeric score",
			cmd:     leaderboard.SubmitCommand{PlayerName: "X", Score: score("lots"), Type: "t"},
			wantErr: domain.ErrInvalidScore,
		},
		{
			name:      "save failure",
			cmd:       leaderboard.SubmitCommand{PlayerName: "X", Score: score("1"), Type: "t"},
			saveErr:   errors.New("disk full"),
			wantSaved: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saves := 0
			var savedBoard *domain.Board
			repo := &mockRepo{
				saveFunc: func(ctx context.Context, board *domain.Board) error {
					saves++
					savedBoard = board
					return tt.saveErr
				},
			}

			service := leaderboard.NewService(repo, nil)
			service.Clock = fixedClock(now)
			result, err := service.Submit(ctx, tt.cmd)

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Submit() error = %v, want %v", err, tt.wantErr)
			}
			if tt.saveErr != nil && !errors.Is(err, tt.saveErr) {
				t.Fatalf("Submit() error = %v, want wrapped %v", err, tt.saveErr)
			}
			if (saves > 0) != tt.wantSaved {
				t.Fatalf("saves = %d, wantSaved %v", saves, tt.wantSaved)
			}
			if tt.wantErr != nil || tt.saveErr != nil {
				if result.Acknowledged {
					t.Error("failed submission must not be acknowledged")
				}
				return
			}

			if !result.Acknowledged {
				t.Error("expected acknowledged result")
			}
			if len(savedBoard.Scores) != 1 {
				t.Fatalf("expected one record, got %d", len(savedBoard.Scores))
			}
			got := savedBoard.Scores[0]
			if got.PlayerName != "Ann" || got.Score != 42 || got.Type != "speed" {
				t.Errorf("unexpected record %#v", got)
			}
			if got.Timestamp != "2026-10-17T12:00:00.000Z" || savedBoard.LastUpdated != got.Timestamp {
				t.Errorf("timestamps not set from clock: %#v / %q", got, savedBoard.LastUpdated)
			}
		})
	}
}

func TestService_SubmitTruncatesName(t *testing.T) {
	repo, saved := boardRepo()
	service := leaderboard.NewService(repo, nil)

	_, err := service.Submit(context.Background(), leaderboard.SubmitCommand{
		PlayerName: shared.PlayerName(strings.Repeat("n", 80)),
		Score:      score("5"),
		Type:       "t",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if n := len(saved().Scores[0].PlayerName); n != domain.MaxPlayerNameLength {
		t.Errorf("stored name length = %d", n)
	}
}

func TestService_LoadFallsBackToEmptyBoard(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	repo := &mockRepo{
		loadFunc: func(ctx context.Context) (*domain.Board, error) {
			return nil, errors.New("unexpected end of JSON input")
		},
	}
	service := leaderboard.NewService(repo, nil)
	service.Clock = fixedClock(now)

	board := service.Load(ctx)
	if board == nil || board.Scores == nil || len(board.Scores) != 0 {
		t.Fatalf("expected empty board, got %#v", board)
	}
	if board.LastUpdated != "2026-01-02T03:04:05.000Z" {
		t.Errorf("LastUpdated = %q", board.LastUpdated)
	}
	if service.Fallbacks() != 1 {
		t.Errorf("Fallbacks() = %d, want 1", service.Fallbacks())
	}

	if got := service.Query(ctx, leaderboard.QueryCommand{Type: domain.TypeAll}); got == nil || len(got) != 0 {
		t.Errorf("Query on unreadable store = %#v, want empty", got)
	}
}

func TestService_QueryScenario(t *testing.T) {
	ctx := context.Background()
	repo, _ := boardRepo()
	service := leaderboard.NewService(repo, nil)

	for _, cmd := range []leaderboard.SubmitCommand{
		{PlayerName: "Ann", Score: score("42"), Type: "speed"},
		{PlayerName: "Zed", Score: score("500"), Type: "jump"},
		{PlayerName: "Bo", Score: score("99"), Type: "speed"},
	} {
		if _, err := service.Submit(ctx, cmd); err != nil {
			t.Fatalf("Submit(%v) error = %v", cmd.PlayerName, err)
		}
	}

	first := service.Query(ctx, leaderboard.QueryCommand{Type: "speed"})
	if len(first) != 2 || first[0].PlayerName != "Bo" || first[1].PlayerName != "Ann" {
		t.Fatalf("unexpected speed leaderboard %#v", first)
	}

	second := service.Query(ctx, leaderboard.QueryCommand{Type: "speed"})
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("repeated query differs at %d: %#v vs %#v", i, first[i], second[i])
		}
	}

	all := service.Query(ctx, leaderboard.QueryCommand{})
	if len(all) != 3 || all[0].PlayerName != "Zed" {
		t.Errorf("unexpected full leaderboard %#v", all)
	}
}

func TestService_ConcurrentSubmitsKeepEveryRecord(t *testing.T) {
	ctx := context.Background()
	repo, saved := boardRepo()
	service := leaderboard.NewService(repo, nil)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = service.Submit(ctx, leaderboard.SubmitCommand{PlayerName: "p", Score: score("1"), Type: "t"})
		}()
	}
	wg.Wait()

	if got := len(saved().Scores); got != n {
		t.Errorf("stored %d records, want %d", got, n)
	}
}
