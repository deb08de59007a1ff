package flow

import (
	"errors"
)

var (
	ErrNoDraft = errors.New("no pending draft")
)
