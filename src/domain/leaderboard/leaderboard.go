package leaderboard

import (
	"cmp"
	"slices"
	"time"

	"github.com/bouncegame/bounce/src/domain/shared"
)

const (
	// MaxPlayerNameLength is counted in runes.
	MaxPlayerNameLength = 50
	// MaxQueryResults caps every leaderboard view.
	MaxQueryResults = 100
	// TypeAll disables the type filter of a query.
	TypeAll shared.ScoreType = "all"

	// TimestampLayout is millisecond ISO-8601 in UTC.
	TimestampLayout = "2006-01-02T15:04:05.000Z"
)

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ScoreRecord is one submitted result. Records are never updated once stored.
type ScoreRecord struct {
	PlayerName shared.PlayerName `json:"playerName"`
	Score      int64             `json:"score"`
	Type       shared.ScoreType  `json:"type"`
	Timestamp  string            `json:"timestamp"`
}

// Board is the persisted aggregate: every record in insertion order plus the
// time of the last successful write.
type Board struct {
	Scores      []ScoreRecord `json:"scores"`
	LastUpdated string        `json:"lastUpdated"`
}

// NewBoard returns an empty board stamped with now.
func NewBoard(now time.Time) *Board {
	return &Board{
		Scores:      []ScoreRecord{},
		LastUpdated: FormatTimestamp(now),
	}
}

// Append adds record at the end and refreshes LastUpdated.
func (b *Board) Append(record ScoreRecord, now time.Time) {
	b.Scores = append(b.Scores, record)
	b.LastUpdated = FormatTimestamp(now)
}

// Query returns the records matching filter, best score first, capped at
// MaxQueryResults. Equal scores keep insertion order. The board is not modified.
func (b *Board) Query(filter shared.ScoreType) []ScoreRecord {
	if filter == "" {
		filter = TypeAll
	}

	out := make([]ScoreRecord, 0, len(b.Scores))
	for _, record := range b.Scores {
		if filter == TypeAll || record.Type == filter {
			out = append(out, record)
		}
	}

	slices.SortStableFunc(out, func(a, c ScoreRecord) int {
		return cmp.Compare(c.Score, a.Score)
	})

	if len(out) > MaxQueryResults {
		out = out[:MaxQueryResults]
	}
	return out
}
