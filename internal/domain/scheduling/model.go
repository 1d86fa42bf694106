package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an appointment. Appointments are never
// physically deleted; cancellation and no-show are soft states.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

var validStatuses = map[Status]bool{
	StatusScheduled: true, StatusConfirmed: true, StatusInProgress: true,
	StatusCompleted: true, StatusCancelled: true, StatusNoShow: true,
}

// Valid reports whether s is a known appointment status.
func (s Status) Valid() bool { return validStatuses[s] }

// Blocking reports whether an appointment in this status occupies its time
// window for conflict purposes. Cancelled and no-show appointments do not
// block the slot.
func (s Status) Blocking() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Role discriminates which party of an appointment an availability check is
// scoped to.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Appointment maps to the appointment table.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	TenantID        string    `db:"tenant_id" json:"tenant_id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	StartTime       time.Time `db:"start_time" json:"start_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Status          Status    `db:"status" json:"status"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// EndTime returns the exclusive end of the appointment window.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the appointment's [start, end) window intersects
// the given half-open interval. The test is strict, so back-to-back
// appointments sharing a boundary instant do not overlap.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return Overlap(a.StartTime, a.EndTime(), start, end)
}

// Overlap is the half-open interval intersection test:
// [aStart, aEnd) and [bStart, bEnd) overlap iff aStart < bEnd && aEnd > bStart.
func Overlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
