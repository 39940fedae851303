package rule

import "errors"

var (
	ErrInvalidRule = errors.New("invalid rule")
	ErrNotFound    = errors.New("rule not found")
)
