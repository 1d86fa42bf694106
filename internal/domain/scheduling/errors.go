package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Errors returned by the scheduler. Mapping them to transport-level codes is
// the caller's concern.
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidDuration     = errors.New("duration_minutes must be positive")
	ErrInvalidStatus       = errors.New("invalid appointment status")
)

// ConflictError reports that a proposed appointment window overlaps an
// existing non-cancelled appointment for the named party. It is never
// auto-resolved; the requested slot is simply refused.
type ConflictError struct {
	Role     Role
	PersonID uuid.UUID
	Start    time.Time
	End      time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s is not available between %s and %s",
		e.Role, e.PersonID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// IsConflict reports whether err is an appointment conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
