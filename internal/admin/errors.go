package admin

import (
	"errors"
	"fmt"
)

const (
	DeleteEventPrompt  = "Are you sure you want to delete this event? This will also delete all associated bookings and reviews."
	DeleteReviewPrompt = "Are you sure you want to delete this review?"
)

// Confirm asks the operator to approve a destructive action.
type Confirm func(prompt string) bool

// ConfirmationRequiredError is returned when a destructive action was not
// confirmed. Nothing has been deleted.
type ConfirmationRequiredError struct {
	Prompt string
}

func (e *ConfirmationRequiredError) Error() string {
	return "confirmation required: " + e.Prompt
}

func IsConfirmationRequired(err error) bool {
	var ce *ConfirmationRequiredError
	return errors.As(err, &ce)
}

// RefreshError means an action was applied but re-fetching its table
// failed; the dashboard still shows the previous rows.
type RefreshError struct {
	Table string
	Err   error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh %s: %v", e.Table, e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

func IsRefreshError(err error) bool {
	var re *RefreshError
	return errors.As(err, &re)
}
