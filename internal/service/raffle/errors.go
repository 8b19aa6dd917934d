package raffle

import "errors"

var (
	ErrInvalidKind  = errors.New("unknown raffle type")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoEntries    = errors.New("no entries available")
)
