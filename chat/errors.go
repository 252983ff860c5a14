package chat

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNameTaken is returned when joining with the name of an active participant
	ErrNameTaken = errors.New("participant name already in use")
	// ErrNotRegistered is returned when the requester is not an active participant
	ErrNotRegistered = errors.New("participant not registered")
	// ErrInvalidSender is returned when a message is sent by someone who is not an active participant
	ErrInvalidSender = errors.New("sender is not an active participant")
	// ErrStore wraps every failure talking to the store
	ErrStore = errors.New("store failure")
)

// ValidationError lists every constraint broken by an input
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", strings.Join(e.Details, "; "))
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
