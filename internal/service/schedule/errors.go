package schedule

import "errors"

var ErrUnauthorized = errors.New("unauthorized")
