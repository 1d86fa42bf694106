package identity

import (
	"context"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Patient, int, error)
}

type PractitionerRepository interface {
	Create(ctx context.Context, pr *Practitioner) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Practitioner, error)
	Update(ctx context.Context, pr *Practitioner) error
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Practitioner, int, error)
}
