package shared

import (
	"fmt"
	"unicode/utf8"
)

// Value types keep domain fields distinct while remaining simple strings at runtime.
type (
	PlayerName string
	ScoreType  string
)

// Validate rejects the empty name. Whitespace is a legitimate name.
func (n PlayerName) Validate() error {
	if n == "" {
		return fmt.Errorf("player name: %w", ErrRequired)
	}
	return nil
}

// Truncate cuts the name to at most max runes.
func (n PlayerName) Truncate(max int) PlayerName {
	if utf8.RuneCountInString(string(n)) <= max {
		return n
	}
	return PlayerName([]rune(string(n))[:max])
}

func (t ScoreType) Validate() error {
	if t == "" {
		return fmt.Errorf("score type: %w", ErrRequired)
	}
	return nil
}
