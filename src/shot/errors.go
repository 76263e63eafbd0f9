package shot

import (
	"errors"
	"fmt"
)

// ErrMissingKey marks a shot document lacking one of the required top-level keys.
var ErrMissingKey = errors.New("missing required key")

// LoadError reports a shot file that could not be opened or decoded, or that lacks
// the required top-level shape. Nothing from a failed load is retained.
type LoadError struct {
	Path string
	Op   string // "open", "decode", "validate"
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load shot: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("load shot %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
