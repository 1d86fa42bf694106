package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/db"
	"github.com/clinicore/clinicore/pkg/pagination"
)

// Service is the sole gateway for creating, rescheduling and cancelling
// appointments. Every write runs inside the injected transaction boundary so
// the availability check and the subsequent insert/update are atomic with
// respect to concurrent callers.
type Service struct {
	appointments AppointmentRepository
	tx           db.TxRunner
}

func NewService(appointments AppointmentRepository, tx db.TxRunner) *Service {
	if tx == nil {
		tx = db.PassthroughTxRunner()
	}
	return &Service{appointments: appointments, tx: tx}
}

// CreateAppointmentInput carries the fields of a scheduling request.
type CreateAppointmentInput struct {
	DoctorID        uuid.UUID
	PatientID       uuid.UUID
	StartTime       time.Time
	DurationMinutes int
	Notes           *string
}

// UpdateAppointmentInput carries a partial update; nil fields are unchanged.
type UpdateAppointmentInput struct {
	StartTime       *time.Time
	DurationMinutes *int
	Status          *Status
	Notes           *string
}

// CheckAvailability reports whether the person has no blocking appointment
// overlapping the proposed [start, end) window. excludeID, when non-nil,
// names an appointment to ignore so an update does not conflict with itself.
// Pure read; no side effects.
func (s *Service) CheckAvailability(ctx context.Context, tenantID string, role Role, personID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	if !end.After(start) {
		return false, fmt.Errorf("end must be after start")
	}

	existing, err := s.appointments.ListConflictCandidates(ctx, tenantID, role, personID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	for _, a := range existing {
		// The store already filtered by window and status, but the overlap
		// rule stays here so correctness does not depend on the store's
		// query capabilities.
		if a.Status.Blocking() && a.Overlaps(start, end) {
			return false, nil
		}
	}
	return true, nil
}

// CreateAppointment validates doctor and patient availability and persists a
// new appointment in status scheduled. The doctor is checked first, so when
// both parties are busy the conflict names the doctor.
func (s *Service) CreateAppointment(ctx context.Context, tenantID string, in CreateAppointmentInput) (*Appointment, error) {
	if in.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("doctor_id is required")
	}
	if in.PatientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if in.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	a := &Appointment{
		TenantID:        tenantID,
		DoctorID:        in.DoctorID,
		PatientID:       in.PatientID,
		StartTime:       in.StartTime,
		DurationMinutes: in.DurationMinutes,
		Status:          StatusScheduled,
		Notes:           in.Notes,
	}

	err := s.tx(ctx, func(ctx context.Context) error {
		if err := s.assertBothAvailable(ctx, tenantID, a, uuid.Nil); err != nil {
			return err
		}
		return s.appointments.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAppointment applies a partial update. When the time window changes,
// both parties are re-validated with the appointment excluded from its own
// conflict check.
func (s *Service) UpdateAppointment(ctx context.Context, tenantID string, id uuid.UUID, in UpdateAppointmentInput) (*Appointment, error) {
	var updated *Appointment
	err := s.tx(ctx, func(ctx context.Context) error {
		a, err := s.appointments.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}

		rescheduled := false
		if in.StartTime != nil && !in.StartTime.Equal(a.StartTime) {
			a.StartTime = *in.StartTime
			rescheduled = true
		}
		if in.DurationMinutes != nil && *in.DurationMinutes != a.DurationMinutes {
			if *in.DurationMinutes <= 0 {
				return ErrInvalidDuration
			}
			a.DurationMinutes = *in.DurationMinutes
			rescheduled = true
		}
		if in.Status != nil {
			if !in.Status.Valid() {
				return fmt.Errorf("%w: %s", ErrInvalidStatus, *in.Status)
			}
			a.Status = *in.Status
		}
		if in.Notes != nil {
			a.Notes = in.Notes
		}

		if rescheduled {
			if err := s.assertBothAvailable(ctx, tenantID, a, a.ID); err != nil {
				return err
			}
		}

		if err := s.appointments.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelAppointment marks the appointment cancelled. Cancellation is always
// permitted, including on completed appointments, and repeating it re-writes
// the same terminal state. No availability check runs.
func (s *Service) CancelAppointment(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	return s.setStatus(ctx, tenantID, id, StatusCancelled, nil)
}

// CompleteAppointment marks the appointment completed. A cancelled
// appointment cannot be completed.
func (s *Service) CompleteAppointment(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	return s.setStatus(ctx, tenantID, id, StatusCompleted, map[Status]bool{StatusCancelled: true})
}

// MarkNoShow records that the patient did not attend. The slot stops
// blocking future bookings.
func (s *Service) MarkNoShow(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	return s.setStatus(ctx, tenantID, id, StatusNoShow, map[Status]bool{StatusCancelled: true, StatusCompleted: true})
}

func (s *Service) setStatus(ctx context.Context, tenantID string, id uuid.UUID, target Status, forbiddenFrom map[Status]bool) (*Appointment, error) {
	var updated *Appointment
	err := s.tx(ctx, func(ctx context.Context) error {
		a, err := s.appointments.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if forbiddenFrom[a.Status] {
			return fmt.Errorf("cannot mark a %s appointment as %s", a.Status, target)
		}
		a.Status = target
		if err := s.appointments.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) GetAppointment(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, tenantID, id)
}

func (s *Service) ListByDoctor(ctx context.Context, tenantID string, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	p := pagination.New(limit, offset)
	return s.appointments.ListByDoctor(ctx, tenantID, doctorID, p.Limit, p.Offset)
}

func (s *Service) ListByPatient(ctx context.Context, tenantID string, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	p := pagination.New(limit, offset)
	return s.appointments.ListByPatient(ctx, tenantID, patientID, p.Limit, p.Offset)
}

// assertBothAvailable checks the doctor first, then the patient, returning a
// ConflictError naming whichever party is unavailable.
func (s *Service) assertBothAvailable(ctx context.Context, tenantID string, a *Appointment, excludeID uuid.UUID) error {
	start, end := a.StartTime, a.EndTime()

	ok, err := s.CheckAvailability(ctx, tenantID, RoleDoctor, a.DoctorID, start, end, excludeID)
	if err != nil {
		return err
	}
	if !ok {
		return &ConflictError{Role: RoleDoctor, PersonID: a.DoctorID, Start: start, End: end}
	}

	ok, err = s.CheckAvailability(ctx, tenantID, RolePatient, a.PatientID, start, end, excludeID)
	if err != nil {
		return err
	}
	if !ok {
		return &ConflictError{Role: RolePatient, PersonID: a.PatientID, Start: start, End: end}
	}
	return nil
}
