package labs

import (
	"context"

	"github.com/google/uuid"
)

type LabResultRepository interface {
	Create(ctx context.Context, lr *LabResult) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*LabResult, error)
	Update(ctx context.Context, lr *LabResult) error
	ListByPatient(ctx context.Context, tenantID string, patientID uuid.UUID, limit, offset int) ([]*LabResult, int, error)
	ListByState(ctx context.Context, tenantID string, state State, limit, offset int) ([]*LabResult, int, error)
}

// TestTypeRepository serves the shared test-type catalog. Test types are
// reference data and are not tenant-scoped.
type TestTypeRepository interface {
	GetByCode(ctx context.Context, code string) (*TestTypeDefinition, error)
	List(ctx context.Context, activeOnly bool) ([]*TestTypeDefinition, error)
	Upsert(ctx context.Context, tt *TestTypeDefinition) error
}
