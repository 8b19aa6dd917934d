package sales

import "errors"

var (
	ErrInvalidKind       = errors.New("unknown ticket type")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrBuyerInfoRequired = errors.New("name and phone are required for raffle tickets")
	ErrUnauthorized      = errors.New("cash payments require the admin password")
	ErrRateLimited       = errors.New("rate limited")
)
