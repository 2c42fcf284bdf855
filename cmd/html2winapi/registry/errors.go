package registry

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID = errors.New("invalid control id")
	ErrEmptyKey  = errors.New("empty stable key")
	ErrKeyReused = errors.New("stable key already emitted")
)

// DuplicateIDError reports two different stable keys resolving to the same
// control id within one run.
type DuplicateIDError struct {
	ID    int
	Key   string
	Owner string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("Duplicate ID %d for %s (already used by %s)", e.ID, e.Key, e.Owner)
}
