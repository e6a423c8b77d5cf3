package leaderboard

import "errors"

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidScore  = errors.New("invalid score")
)
