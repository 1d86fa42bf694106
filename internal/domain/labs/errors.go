package labs

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Errors returned by the workflow. Mapping them to transport-level codes is
// the caller's concern.
var (
	ErrLabResultNotFound = errors.New("lab result not found")
	ErrUnknownTestType   = errors.New("unknown or inactive test type")
	ErrNoValueRecorded   = errors.New("lab result has no value recorded")
	ErrValueLocked       = errors.New("lab result value cannot be changed in its current state")
)

// InvalidTransitionError reports a state change request that is not in the
// transition table.
type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid lab result transition from %s to %s", e.From, e.To)
}

// SelfReviewError reports a segregation-of-duties violation: the same actor
// cannot both request and validate (or review and validate) a result.
type SelfReviewError struct {
	ActorID uuid.UUID
	Rule    string
}

func (e *SelfReviewError) Error() string {
	return fmt.Sprintf("actor %s: %s", e.ActorID, e.Rule)
}

// IneligibleTestError reports that a test type's age or gender constraint
// rules the patient out.
type IneligibleTestError struct {
	TestTypeCode string
	Reason       string
}

func (e *IneligibleTestError) Error() string {
	return fmt.Sprintf("patient not eligible for test %s: %s", e.TestTypeCode, e.Reason)
}
