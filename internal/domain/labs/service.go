package labs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/domain/identity"
	"github.com/clinicore/clinicore/internal/platform/db"
	"github.com/clinicore/clinicore/pkg/pagination"
)

const defaultCriticalMultiplier = 1.5

// PatientDirectory is the slice of the identity service the workflow needs
// for eligibility checks. identity.PatientRepository satisfies it.
type PatientDirectory interface {
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*identity.Patient, error)
}

type Service struct {
	results   LabResultRepository
	testTypes TestTypeRepository
	patients  PatientDirectory
	tx        db.TxRunner

	criticalMultiplier float64
	now                func() time.Time
}

// NewService wires the lab result workflow. A nil tx runner degrades to
// passthrough execution, which unit tests rely on. A non-positive
// criticalMultiplier falls back to the default.
func NewService(results LabResultRepository, testTypes TestTypeRepository, patients PatientDirectory, tx db.TxRunner, criticalMultiplier float64) *Service {
	if tx == nil {
		tx = db.PassthroughTxRunner()
	}
	if criticalMultiplier <= 0 {
		criticalMultiplier = defaultCriticalMultiplier
	}
	return &Service{
		results:            results,
		testTypes:          testTypes,
		patients:           patients,
		tx:                 tx,
		criticalMultiplier: criticalMultiplier,
		now:                time.Now,
	}
}

// =========== Eligibility ===========

// CheckEligibility returns nil when the patient satisfies the test type's
// age and gender constraints as of asOf, or an *IneligibleTestError naming
// the first violated constraint. Age bounds are inclusive at both ends.
func CheckEligibility(tt *TestTypeDefinition, p *identity.Patient, asOf time.Time) error {
	if tt.MinAgeYears != nil || tt.MaxAgeYears != nil {
		age, known := p.AgeOn(asOf)
		if !known {
			return &IneligibleTestError{TestTypeCode: tt.Code, Reason: "patient birth date unknown"}
		}
		if tt.MinAgeYears != nil && age < *tt.MinAgeYears {
			return &IneligibleTestError{
				TestTypeCode: tt.Code,
				Reason:       fmt.Sprintf("patient age %d is below minimum %d", age, *tt.MinAgeYears),
			}
		}
		if tt.MaxAgeYears != nil && age > *tt.MaxAgeYears {
			return &IneligibleTestError{
				TestTypeCode: tt.Code,
				Reason:       fmt.Sprintf("patient age %d is above maximum %d", age, *tt.MaxAgeYears),
			}
		}
	}
	if tt.ApplicableGender != nil {
		if p.Gender == nil || *p.Gender != *tt.ApplicableGender {
			return &IneligibleTestError{
				TestTypeCode: tt.Code,
				Reason:       fmt.Sprintf("test applies to gender %q only", *tt.ApplicableGender),
			}
		}
	}
	return nil
}

// ValidateTestEligibility reports whether the patient may be ordered the
// given test type as of now.
func (s *Service) ValidateTestEligibility(tt *TestTypeDefinition, p *identity.Patient) bool {
	return CheckEligibility(tt, p, s.now()) == nil
}

// =========== Ordering ===========

type RequestTestInput struct {
	PatientID    uuid.UUID
	TestTypeCode string
	RequestedBy  uuid.UUID
	Value        *float64
	Flags        []string
}

// RequestTest creates a lab result in draft state after checking that the
// test type exists, is active, and the patient is eligible for it.
func (s *Service) RequestTest(ctx context.Context, tenantID string, in RequestTestInput) (*LabResult, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	if in.PatientID == uuid.Nil || in.RequestedBy == uuid.Nil {
		return nil, fmt.Errorf("patient id and requesting practitioner id are required")
	}
	if in.TestTypeCode == "" {
		return nil, fmt.Errorf("test type code is required")
	}

	var lr *LabResult
	err := s.tx(ctx, func(ctx context.Context) error {
		tt, err := s.testTypes.GetByCode(ctx, in.TestTypeCode)
		if err != nil {
			return err
		}
		if !tt.Active {
			return ErrUnknownTestType
		}
		p, err := s.patients.GetByID(ctx, tenantID, in.PatientID)
		if err != nil {
			return err
		}
		if err := CheckEligibility(tt, p, s.now()); err != nil {
			return err
		}
		lr = &LabResult{
			TenantID:     tenantID,
			PatientID:    in.PatientID,
			TestTypeCode: in.TestTypeCode,
			State:        StateDraft,
			Value:        in.Value,
			Flags:        in.Flags,
			RequestedBy:  in.RequestedBy,
			RequestedAt:  s.now(),
		}
		return s.results.Create(ctx, lr)
	})
	if err != nil {
		return nil, err
	}
	return lr, nil
}

// RecordValue sets or replaces the measured value. Once a result is
// reviewed it must go through an amendment before the value can change.
func (s *Service) RecordValue(ctx context.Context, tenantID string, id uuid.UUID, value float64, flags []string) (*LabResult, error) {
	var lr *LabResult
	err := s.tx(ctx, func(ctx context.Context) error {
		var err error
		lr, err = s.results.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		switch lr.State {
		case StateDraft, StatePendingReview, StateAmended:
		default:
			return ErrValueLocked
		}
		lr.Value = &value
		lr.Flags = flags
		return s.results.Update(ctx, lr)
	})
	if err != nil {
		return nil, err
	}
	return lr, nil
}

// =========== Workflow ===========

// TransitionState moves a lab result to the target state on behalf of
// actorID, enforcing the transition table and the reviewer and validator
// distinctness rules, and stamping the acting party on review and
// validation.
func (s *Service) TransitionState(ctx context.Context, tenantID string, id uuid.UUID, to State, actorID uuid.UUID) (*LabResult, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("unknown lab result state %q", to)
	}
	if actorID == uuid.Nil {
		return nil, fmt.Errorf("acting practitioner id is required")
	}

	var lr *LabResult
	err := s.tx(ctx, func(ctx context.Context) error {
		var err error
		lr, err = s.results.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if !TransitionAllowed(lr.State, to) {
			return &InvalidTransitionError{From: lr.State, To: to}
		}
		if err := checkActor(lr, to, actorID); err != nil {
			return err
		}
		now := s.now()
		switch to {
		case StateReviewed:
			lr.ReviewedBy = &actorID
			lr.ReviewedAt = &now
		case StateValidated:
			lr.ValidatedBy = &actorID
			lr.ValidatedAt = &now
		}
		lr.State = to
		return s.results.Update(ctx, lr)
	})
	if err != nil {
		return nil, err
	}
	return lr, nil
}

// checkActor enforces segregation of duties on the entering state.
func checkActor(lr *LabResult, to State, actorID uuid.UUID) error {
	switch to {
	case StateReviewed:
		if actorID == lr.RequestedBy {
			return &SelfReviewError{ActorID: actorID, Rule: "reviewer must differ from requester"}
		}
	case StateValidated:
		if actorID == lr.RequestedBy {
			return &SelfReviewError{ActorID: actorID, Rule: "validator must differ from requester"}
		}
		if lr.ReviewedBy != nil && actorID == *lr.ReviewedBy {
			return &SelfReviewError{ActorID: actorID, Rule: "validator must differ from reviewer"}
		}
	}
	return nil
}

func (s *Service) SubmitForReview(ctx context.Context, tenantID string, id, actorID uuid.UUID) (*LabResult, error) {
	return s.TransitionState(ctx, tenantID, id, StatePendingReview, actorID)
}

func (s *Service) Review(ctx context.Context, tenantID string, id, reviewerID uuid.UUID) (*LabResult, error) {
	return s.TransitionState(ctx, tenantID, id, StateReviewed, reviewerID)
}

func (s *Service) Validate(ctx context.Context, tenantID string, id, validatorID uuid.UUID) (*LabResult, error) {
	return s.TransitionState(ctx, tenantID, id, StateValidated, validatorID)
}

func (s *Service) Amend(ctx context.Context, tenantID string, id, actorID uuid.UUID) (*LabResult, error) {
	return s.TransitionState(ctx, tenantID, id, StateAmended, actorID)
}

func (s *Service) Cancel(ctx context.Context, tenantID string, id, actorID uuid.UUID) (*LabResult, error) {
	return s.TransitionState(ctx, tenantID, id, StateCancelled, actorID)
}

// =========== Interpretation ===========

// InterpretValue classifies a value against the test type's normal range.
// Values outside the range by more than criticalMultiplier times the range
// width are critical. When only one bound is defined the width is unknown
// and the critical band is not applied; with no bounds every value reads
// normal.
func (s *Service) InterpretValue(value float64, tt *TestTypeDefinition) Interpretation {
	return Interpret(value, tt, s.criticalMultiplier)
}

func Interpret(value float64, tt *TestTypeDefinition, criticalMultiplier float64) Interpretation {
	low, high := tt.NormalRangeLow, tt.NormalRangeHigh
	if low == nil && high == nil {
		return InterpretationNormal
	}
	var width float64
	haveWidth := low != nil && high != nil
	if haveWidth {
		width = *high - *low
	}
	if low != nil && value < *low {
		if haveWidth && *low-value > criticalMultiplier*width {
			return InterpretationCritical
		}
		return InterpretationLow
	}
	if high != nil && value > *high {
		if haveWidth && value-*high > criticalMultiplier*width {
			return InterpretationCritical
		}
		return InterpretationHigh
	}
	return InterpretationNormal
}

// InterpretResult loads a stored result and interprets its recorded value.
func (s *Service) InterpretResult(ctx context.Context, tenantID string, id uuid.UUID) (Interpretation, error) {
	lr, err := s.results.GetByID(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	if lr.Value == nil {
		return "", ErrNoValueRecorded
	}
	tt, err := s.testTypes.GetByCode(ctx, lr.TestTypeCode)
	if err != nil {
		return "", err
	}
	return s.InterpretValue(*lr.Value, tt), nil
}

// =========== Queries ===========

func (s *Service) GetLabResult(ctx context.Context, tenantID string, id uuid.UUID) (*LabResult, error) {
	return s.results.GetByID(ctx, tenantID, id)
}

func (s *Service) ListByPatient(ctx context.Context, tenantID string, patientID uuid.UUID, limit, offset int) ([]*LabResult, int, error) {
	p := pagination.New(limit, offset)
	return s.results.ListByPatient(ctx, tenantID, patientID, p.Limit, p.Offset)
}

func (s *Service) ListByState(ctx context.Context, tenantID string, state State, limit, offset int) ([]*LabResult, int, error) {
	if !state.Valid() {
		return nil, 0, fmt.Errorf("unknown lab result state %q", state)
	}
	p := pagination.New(limit, offset)
	return s.results.ListByState(ctx, tenantID, state, p.Limit, p.Offset)
}

func (s *Service) GetTestType(ctx context.Context, code string) (*TestTypeDefinition, error) {
	return s.testTypes.GetByCode(ctx, code)
}

func (s *Service) ListTestTypes(ctx context.Context, activeOnly bool) ([]*TestTypeDefinition, error) {
	return s.testTypes.List(ctx, activeOnly)
}

func (s *Service) UpsertTestType(ctx context.Context, tt *TestTypeDefinition) error {
	if tt.Code == "" || tt.DisplayName == "" {
		return fmt.Errorf("test type code and display name are required")
	}
	if tt.ApplicableGender != nil && !identity.ValidGender(*tt.ApplicableGender) {
		return fmt.Errorf("invalid applicable gender %q", *tt.ApplicableGender)
	}
	if tt.NormalRangeLow != nil && tt.NormalRangeHigh != nil && *tt.NormalRangeLow >= *tt.NormalRangeHigh {
		return fmt.Errorf("normal range low must be below high")
	}
	return s.testTypes.Upsert(ctx, tt)
}
