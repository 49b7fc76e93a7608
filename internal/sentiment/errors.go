package sentiment

import (
	"errors"
	"fmt"
)

// ErrEmptyText is returned when input is empty or whitespace-only. Validation
// happens before any classifier is invoked.
var ErrEmptyText = errors.New("empty text")

// ClassifierError wraps a single model's inference failure. The ensemble
// recovers from it by skipping the model; it never reaches the end caller.
type ClassifierError struct {
	Model string
	Err   error
}

func (e *ClassifierError) Error() string {
	return fmt.Sprintf("classifier %q: %v", e.Model, e.Err)
}

func (e *ClassifierError) Unwrap() error { return e.Err }
