package labs

import (
	"time"

	"github.com/google/uuid"
)

// State is the workflow state of a lab result.
type State string

const (
	StateDraft         State = "draft"
	StatePendingReview State = "pending_review"
	StateReviewed      State = "reviewed"
	StateValidated     State = "validated"
	StateAmended       State = "amended"
	StateCancelled     State = "cancelled"
)

// labTransitions defines the allowed workflow transitions. Cancellation is
// reachable from every non-terminal state; validated and cancelled are
// terminal.
var labTransitions = map[State][]State{
	StateDraft:         {StatePendingReview, StateCancelled},
	StatePendingReview: {StateReviewed, StateCancelled},
	StateReviewed:      {StateValidated, StateAmended, StateCancelled},
	StateAmended:       {StatePendingReview, StateCancelled},
	StateValidated:     {},
	StateCancelled:     {},
}

// Valid reports whether s is a known workflow state.
func (s State) Valid() bool {
	_, ok := labTransitions[s]
	return ok
}

// Terminal reports whether the state has no outgoing transitions.
func (s State) Terminal() bool {
	return len(labTransitions[s]) == 0 && s.Valid()
}

// TransitionAllowed reports whether from -> to is in the transition table.
func TransitionAllowed(from, to State) bool {
	for _, t := range labTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Interpretation classifies a result value against a test type's normal
// range.
type Interpretation string

const (
	InterpretationNormal   Interpretation = "normal"
	InterpretationLow      Interpretation = "low"
	InterpretationHigh     Interpretation = "high"
	InterpretationCritical Interpretation = "critical"
)

// LabResult maps to the lab_result table.
type LabResult struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TenantID     string     `db:"tenant_id" json:"tenant_id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	TestTypeCode string     `db:"test_type_code" json:"test_type_code"`
	State        State      `db:"state" json:"state"`
	Value        *float64   `db:"value" json:"value,omitempty"`
	Flags        []string   `db:"flags" json:"flags,omitempty"`
	RequestedBy  uuid.UUID  `db:"requested_by_id" json:"requested_by_id"`
	ReviewedBy   *uuid.UUID `db:"reviewed_by_id" json:"reviewed_by_id,omitempty"`
	ValidatedBy  *uuid.UUID `db:"validated_by_id" json:"validated_by_id,omitempty"`
	RequestedAt  time.Time  `db:"requested_at" json:"requested_at"`
	ReviewedAt   *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ValidatedAt  *time.Time `db:"validated_at" json:"validated_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// TestTypeDefinition is read-only reference data describing an orderable
// test: eligibility constraints and the normal value range.
type TestTypeDefinition struct {
	Code             string   `db:"code" json:"code"`
	DisplayName      string   `db:"display_name" json:"display_name"`
	MinAgeYears      *int     `db:"min_age_years" json:"min_age_years,omitempty"`
	MaxAgeYears      *int     `db:"max_age_years" json:"max_age_years,omitempty"`
	ApplicableGender *string  `db:"applicable_gender" json:"applicable_gender,omitempty"`
	NormalRangeLow   *float64 `db:"normal_range_low" json:"normal_range_low,omitempty"`
	NormalRangeHigh  *float64 `db:"normal_range_high" json:"normal_range_high,omitempty"`
	Active           bool     `db:"active" json:"active"`
}
