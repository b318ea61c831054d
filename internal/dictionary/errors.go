package dictionary

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("invalid dictionary entry")

// Origin tells which of the two construction inputs an entry came from.
type Origin string

const (
	OriginBase Origin = "base"
	OriginUser Origin = "user"
)

// ValidationError reports a dictionary entry that lacks a required field.
type ValidationError struct {
	Origin Origin
	Key    string
	Field  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s dictionary entry %q doesn't have %s", e.Origin, e.Key, e.Field)
}

// Is makes errors.Is(err, ErrValidation) hold for any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
