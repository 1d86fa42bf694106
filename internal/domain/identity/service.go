package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/pkg/pagination"
)

// Errors returned by the identity service and repositories.
var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPractitionerNotFound = errors.New("practitioner not found")
)

type Service struct {
	patients      PatientRepository
	practitioners PractitionerRepository
}

func NewService(patients PatientRepository, practitioners PractitionerRepository) *Service {
	return &Service{patients: patients, practitioners: practitioners}
}

func (s *Service) RegisterPatient(ctx context.Context, p *Patient) error {
	if p.TenantID == "" {
		return fmt.Errorf("tenant_id is required")
	}
	if p.FamilyName == "" {
		return fmt.Errorf("family_name is required")
	}
	if p.Gender != nil && !ValidGender(*p.Gender) {
		return fmt.Errorf("invalid gender code: %s", *p.Gender)
	}
	p.Active = true
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, tenantID string, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, tenantID, id)
}

func (s *Service) ListPatients(ctx context.Context, tenantID string, limit, offset int) ([]*Patient, int, error) {
	p := pagination.New(limit, offset)
	return s.patients.List(ctx, tenantID, p.Limit, p.Offset)
}

func (s *Service) RegisterPractitioner(ctx context.Context, pr *Practitioner) error {
	if pr.TenantID == "" {
		return fmt.Errorf("tenant_id is required")
	}
	if pr.FamilyName == "" {
		return fmt.Errorf("family_name is required")
	}
	pr.Active = true
	return s.practitioners.Create(ctx, pr)
}

func (s *Service) GetPractitioner(ctx context.Context, tenantID string, id uuid.UUID) (*Practitioner, error) {
	return s.practitioners.GetByID(ctx, tenantID, id)
}

func (s *Service) ListPractitioners(ctx context.Context, tenantID string, limit, offset int) ([]*Practitioner, int, error) {
	p := pagination.New(limit, offset)
	return s.practitioners.List(ctx, tenantID, p.Limit, p.Offset)
}
