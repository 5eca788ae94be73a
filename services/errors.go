package services

import (
	"errors"
	"fmt"

	"github.com/chessclub/arena/models"
)

// Shared errors mapped to HTTP statuses in the handlers package.
var (
	ErrMatchNotFound = errors.New("match not found")

	// Validation and business rules
	ErrValidationFailed     = errors.New("validation failed")
	ErrStartTimeRequired    = errors.New("a scheduled match requires a start time")
	ErrGameURLRequired      = errors.New("a live match requires a game url")
	ErrResultRequired       = errors.New("a result is required")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrConfirmationRequired = errors.New("operation requires explicit confirmation")
)

// DuplicateMatchError reports that a game URL is already published. It is a
// warning the admin has to acknowledge, not a hard failure: the existing
// record's status and managing admin are included so the conflict can be
// named in the UI.
type DuplicateMatchError struct {
	Existing *models.MatchRecord
}

func (e *DuplicateMatchError) Error() string {
	return fmt.Sprintf("game already published as match %d (%s, managed by %s)",
		e.Existing.ID, e.ExistingStatus(), e.Existing.ManagedBy)
}

func (e *DuplicateMatchError) ExistingStatus() string {
	switch {
	case e.Existing.Live():
		return "live"
	case e.Existing.Scheduled():
		return "scheduled"
	default:
		return "archived"
	}
}
