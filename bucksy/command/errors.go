package command

import (
	"errors"
	"fmt"
)

// ErrStore marks errors coming from the persistence layer. Handlers wrap it
// so the dispatcher can answer with a retry message instead of a generic one.
var ErrStore = errors.New("store failure")

type DuplicateCommandError struct {
	Token    string
	Existing string
}

func (e *DuplicateCommandError) Error() string {
	if e.Existing == "" {
		return fmt.Sprintf("duplicate command token %q", e.Token)
	}
	return fmt.Sprintf("duplicate command token %q already registered by %q", e.Token, e.Existing)
}

// StoreError tags err as a persistence failure while keeping it inspectable.
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
