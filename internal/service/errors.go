package service

import (
	"errors"
	"fmt"

	"github.com/ukydev/car-rental-portal/internal/db"
	"github.com/ukydev/car-rental-portal/internal/rental"
)

// lookupError turns a repository miss into a rental.NotFound carrying
// message. Other failures are wrapped unchanged.
func lookupError(err error, resource, message string) error {
	if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
		return rental.NotFound(resource, message)
	}
	return fmt.Errorf("find %s: %w", resource, err)
}

// writeConflict reports a conditional booking write that lost a race.
func writeConflict(err error) error {
	if errors.Is(err, db.ErrWriteConflict) {
		return rental.InvalidTransition("concurrent-modification",
			"booking was changed by another request, reload and try again")
	}
	return fmt.Errorf("update booking: %w", err)
}
