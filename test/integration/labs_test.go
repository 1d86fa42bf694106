package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/domain/identity"
	"github.com/clinicore/clinicore/internal/domain/labs"
	"github.com/clinicore/clinicore/internal/platform/db"
)

func newLabsService() *labs.Service {
	return labs.NewService(
		labs.NewLabResultRepoPG(testPool),
		labs.NewTestTypeRepoPG(testPool),
		identity.NewPatientRepoPG(testPool),
		db.PoolTxRunner(testPool),
		1.5,
	)
}

func seedTestType(t *testing.T, ctx context.Context, svc *labs.Service, code string) {
	t.Helper()
	low, high := 4.0, 10.0
	minAge := 18
	err := svc.UpsertTestType(ctx, &labs.TestTypeDefinition{
		Code: code, DisplayName: "Integration " + code,
		MinAgeYears: &minAge, NormalRangeLow: &low, NormalRangeHigh: &high, Active: true,
	})
	if err != nil {
		t.Fatalf("seed test type: %v", err)
	}
}

func TestLabs_FullWorkflowRoundTrip(t *testing.T) {
	ctx := context.Background()
	tenant := uniqueTenant(t, ctx)
	patient := createTestPatient(t, ctx, tenant, "Hori", time.Date(1980, 4, 4, 0, 0, 0, 0, time.UTC), "f")
	requester := createTestPractitioner(t, ctx, tenant, "Iwata")
	reviewer := createTestPractitioner(t, ctx, tenant, "Joana")
	validator := createTestPractitioner(t, ctx, tenant, "Kim")
	svc := newLabsService()
	seedTestType(t, ctx, svc, "it-wbc")

	lr, err := svc.RequestTest(ctx, tenant, labs.RequestTestInput{
		PatientID: patient.ID, TestTypeCode: "it-wbc", RequestedBy: requester.ID,
	})
	if err != nil {
		t.Fatalf("RequestTest: %v", err)
	}

	if _, err := svc.RecordValue(ctx, tenant, lr.ID, 12.5, []string{"hemolyzed"}); err != nil {
		t.Fatalf("RecordValue: %v", err)
	}
	if _, err := svc.SubmitForReview(ctx, tenant, lr.ID, requester.ID); err != nil {
		t.Fatalf("SubmitForReview: %v", err)
	}
	if _, err := svc.Review(ctx, tenant, lr.ID, reviewer.ID); err != nil {
		t.Fatalf("Review: %v", err)
	}
	got, err := svc.Validate(ctx, tenant, lr.ID, validator.ID)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.State != labs.StateValidated {
		t.Errorf("expected validated, got %s", got.State)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != reviewer.ID {
		t.Error("reviewer stamp lost in round trip")
	}
	if len(got.Flags) != 1 || got.Flags[0] != "hemolyzed" {
		t.Errorf("flags lost in round trip: %v", got.Flags)
	}

	interp, err := svc.InterpretResult(ctx, tenant, lr.ID)
	if err != nil {
		t.Fatalf("InterpretResult: %v", err)
	}
	if interp != labs.InterpretationHigh {
		t.Errorf("expected high for 12.5 against 4-10, got %s", interp)
	}
}

func TestLabs_ActorRulesEnforcedThroughStore(t *testing.T) {
	ctx := context.Background()
	tenant := uniqueTenant(t, ctx)
	patient := createTestPatient(t, ctx, tenant, "Lima", time.Date(1975, 2, 2, 0, 0, 0, 0, time.UTC), "m")
	requester := createTestPractitioner(t, ctx, tenant, "Melo")
	svc := newLabsService()
	seedTestType(t, ctx, svc, "it-glu")

	lr, err := svc.RequestTest(ctx, tenant, labs.RequestTestInput{
		PatientID: patient.ID, TestTypeCode: "it-glu", RequestedBy: requester.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitForReview(ctx, tenant, lr.ID, requester.ID); err != nil {
		t.Fatal(err)
	}

	var self *labs.SelfReviewError
	if _, err := svc.Review(ctx, tenant, lr.ID, requester.ID); !errors.As(err, &self) {
		t.Fatalf("expected SelfReviewError, got %v", err)
	}

	// the rejected transition must not have leaked into the store
	stored, err := svc.GetLabResult(ctx, tenant, lr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.State != labs.StatePendingReview {
		t.Errorf("expected pending_review after rejected review, got %s", stored.State)
	}
}

func TestLabs_EligibilityAgainstStoredPatient(t *testing.T) {
	ctx := context.Background()
	tenant := uniqueTenant(t, ctx)
	child := createTestPatient(t, ctx, tenant, "Nunes", time.Now().UTC().AddDate(-10, 0, 0), "f")
	requester := createTestPractitioner(t, ctx, tenant, "Prado")
	svc := newLabsService()
	seedTestType(t, ctx, svc, "it-adult")

	_, err := svc.RequestTest(ctx, tenant, labs.RequestTestInput{
		PatientID: child.ID, TestTypeCode: "it-adult", RequestedBy: requester.ID,
	})
	var ineligible *labs.IneligibleTestError
	if !errors.As(err, &ineligible) {
		t.Fatalf("expected IneligibleTestError, got %v", err)
	}
}

func TestLabs_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	tenantA := uniqueTenant(t, ctx)
	tenantB := uniqueTenant(t, ctx)
	patient := createTestPatient(t, ctx, tenantA, "Rocha", time.Date(1988, 8, 8, 0, 0, 0, 0, time.UTC), "m")
	requester := createTestPractitioner(t, ctx, tenantA, "Sousa")
	svc := newLabsService()
	seedTestType(t, ctx, svc, "it-iso")

	lr, err := svc.RequestTest(ctx, tenantA, labs.RequestTestInput{
		PatientID: patient.ID, TestTypeCode: "it-iso", RequestedBy: requester.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetLabResult(ctx, tenantB, lr.ID); !errors.Is(err, labs.ErrLabResultNotFound) {
		t.Fatalf("expected cross-tenant read to miss, got %v", err)
	}
	if _, err := svc.Cancel(ctx, tenantB, lr.ID, uuid.New()); !errors.Is(err, labs.ErrLabResultNotFound) {
		t.Fatalf("expected cross-tenant cancel to miss, got %v", err)
	}
}
