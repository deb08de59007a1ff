package programs

import (
	"errors"
)

var (
	ErrProgramNotFound = errors.New("program not found")
)
