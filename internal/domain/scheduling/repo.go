package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error

	// ListConflictCandidates returns the person's appointments in blocking
	// statuses whose stored windows intersect [start, end), excluding the
	// appointment with excludeID when it is non-nil. The store applies the
	// interval filter where it can; callers re-check overlap in-process.
	ListConflictCandidates(ctx context.Context, tenantID string, role Role, personID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]*Appointment, error)

	ListByDoctor(ctx context.Context, tenantID string, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, tenantID string, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
}
