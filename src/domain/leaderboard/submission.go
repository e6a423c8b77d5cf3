package leaderboard

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bouncegame/bounce/src/domain/shared"
)

// ScoreSubmission is a score as received from a client, before coercion.
type ScoreSubmission struct {
	PlayerName shared.PlayerName
	// Score is the textual form of the submitted value; nil when absent.
	Score       *string
	Type        shared.ScoreType
	SubmittedAt time.Time
}

// Validate reports ErrMissingFields when any of the three fields is absent.
func (s ScoreSubmission) Validate() error {
	if err := errors.Join(s.PlayerName.Validate(), s.Type.Validate()); err != nil {
		return errors.Join(ErrMissingFields, err)
	}
	if s.Score == nil {
		return ErrMissingFields
	}
	return nil
}

// Record validates the submission and builds the record to store.
func (s ScoreSubmission) Record() (ScoreRecord, error) {
	if err := s.Validate(); err != nil {
		return ScoreRecord{}, err
	}
	score, err := ParseScore(*s.Score)
	if err != nil {
		return ScoreRecord{}, err
	}
	return ScoreRecord{
		PlayerName: s.PlayerName.Truncate(MaxPlayerNameLength),
		Score:      score,
		Type:       s.Type,
		Timestamp:  FormatTimestamp(s.SubmittedAt),
	}, nil
}

// ParseScore coerces text to an integer. Fractions are truncated toward zero;
// anything that is not a finite number in int64 range is ErrInvalidScore.
func ParseScore(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, ErrInvalidScore
	}
	return int64(f), nil
}
