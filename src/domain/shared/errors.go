package shared

import "errors"

var (
	ErrNotFound = errors.New("entity not found")
	ErrRequired = errors.New("required value missing")
)
