package query

import "errors"

var ErrInvalidKind = errors.New("unknown raffle type")
