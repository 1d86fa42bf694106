package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repositories --

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, tenantID string, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok || p.TenantID != tenantID {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if p.TenantID == tenantID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

type mockPractitionerRepo struct {
	practitioners map[uuid.UUID]*Practitioner
}

func newMockPractitionerRepo() *mockPractitionerRepo {
	return &mockPractitionerRepo{practitioners: make(map[uuid.UUID]*Practitioner)}
}

func (m *mockPractitionerRepo) Create(_ context.Context, pr *Practitioner) error {
	pr.ID = uuid.New()
	pr.CreatedAt = time.Now()
	pr.UpdatedAt = time.Now()
	m.practitioners[pr.ID] = pr
	return nil
}

func (m *mockPractitionerRepo) GetByID(_ context.Context, tenantID string, id uuid.UUID) (*Practitioner, error) {
	pr, ok := m.practitioners[id]
	if !ok || pr.TenantID != tenantID {
		return nil, ErrPractitionerNotFound
	}
	return pr, nil
}

func (m *mockPractitionerRepo) Update(_ context.Context, pr *Practitioner) error {
	m.practitioners[pr.ID] = pr
	return nil
}

func (m *mockPractitionerRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*Practitioner, int, error) {
	var result []*Practitioner
	for _, pr := range m.practitioners {
		if pr.TenantID == tenantID {
			result = append(result, pr)
		}
	}
	return result, len(result), nil
}

func newTestService() *Service {
	return NewService(newMockPatientRepo(), newMockPractitionerRepo())
}

// -- Tests --

func TestRegisterPatient(t *testing.T) {
	svc := newTestService()
	g := GenderFemale
	p := &Patient{TenantID: "acme", GivenName: "Ada", FamilyName: "Lovelace", Gender: &g}

	if err := svc.RegisterPatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected patient id to be assigned")
	}
	if !p.Active {
		t.Error("expected new patient to be active")
	}
}

func TestRegisterPatient_TenantRequired(t *testing.T) {
	svc := newTestService()
	err := svc.RegisterPatient(context.Background(), &Patient{FamilyName: "Lovelace"})
	if err == nil {
		t.Error("expected error when tenant_id is missing")
	}
}

func TestRegisterPatient_InvalidGender(t *testing.T) {
	svc := newTestService()
	g := "x"
	err := svc.RegisterPatient(context.Background(), &Patient{TenantID: "acme", FamilyName: "L", Gender: &g})
	if err == nil {
		t.Error("expected error for invalid gender code")
	}
}

func TestGetPatient_WrongTenant(t *testing.T) {
	svc := newTestService()
	p := &Patient{TenantID: "acme", FamilyName: "Lovelace"}
	if err := svc.RegisterPatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.GetPatient(context.Background(), "other", p.ID); err == nil {
		t.Error("expected not-found for wrong tenant")
	}
}

func TestRegisterPractitioner(t *testing.T) {
	svc := newTestService()
	pr := &Practitioner{TenantID: "acme", GivenName: "Gregory", FamilyName: "House"}

	if err := svc.RegisterPractitioner(context.Background(), pr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pr.ID == uuid.Nil {
		t.Error("expected practitioner id to be assigned")
	}
}

func TestListPatients_ScopedByTenant(t *testing.T) {
	svc := newTestService()
	for _, tenant := range []string{"acme", "acme", "other"} {
		if err := svc.RegisterPatient(context.Background(), &Patient{TenantID: tenant, FamilyName: "X"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	items, total, err := svc.ListPatients(context.Background(), "acme", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 patients for tenant acme, got %d (total %d)", len(items), total)
	}
}
