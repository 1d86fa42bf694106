package labs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Lab Result Repository ===========

type labResultRepoPG struct{ pool *pgxpool.Pool }

func NewLabResultRepoPG(pool *pgxpool.Pool) LabResultRepository {
	return &labResultRepoPG{pool: pool}
}

func (r *labResultRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const labResultCols = `id, tenant_id, patient_id, test_type_code, state, value, flags,
	requested_by_id, reviewed_by_id, validated_by_id,
	requested_at, reviewed_at, validated_at, created_at, updated_at`

func (r *labResultRepoPG) scanLabResult(row pgx.Row) (*LabResult, error) {
	var lr LabResult
	err := row.Scan(&lr.ID, &lr.TenantID, &lr.PatientID, &lr.TestTypeCode, &lr.State,
		&lr.Value, &lr.Flags, &lr.RequestedBy, &lr.ReviewedBy, &lr.ValidatedBy,
		&lr.RequestedAt, &lr.ReviewedAt, &lr.ValidatedAt, &lr.CreatedAt, &lr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLabResultNotFound
	}
	return &lr, err
}

func (r *labResultRepoPG) Create(ctx context.Context, lr *LabResult) error {
	lr.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_result (id, tenant_id, patient_id, test_type_code, state, value, flags,
			requested_by_id, requested_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		lr.ID, lr.TenantID, lr.PatientID, lr.TestTypeCode, lr.State, lr.Value, lr.Flags,
		lr.RequestedBy, lr.RequestedAt)
	return err
}

func (r *labResultRepoPG) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*LabResult, error) {
	return r.scanLabResult(r.conn(ctx).QueryRow(ctx,
		`SELECT `+labResultCols+` FROM lab_result WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *labResultRepoPG) Update(ctx context.Context, lr *LabResult) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_result SET state=$3, value=$4, flags=$5,
			reviewed_by_id=$6, validated_by_id=$7, reviewed_at=$8, validated_at=$9, updated_at=NOW()
		WHERE tenant_id = $1 AND id = $2`,
		lr.TenantID, lr.ID, lr.State, lr.Value, lr.Flags,
		lr.ReviewedBy, lr.ValidatedBy, lr.ReviewedAt, lr.ValidatedAt)
	return err
}

func (r *labResultRepoPG) ListByPatient(ctx context.Context, tenantID string, patientID uuid.UUID, limit, offset int) ([]*LabResult, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM lab_result WHERE tenant_id = $1 AND patient_id = $2`,
		tenantID, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+labResultCols+` FROM lab_result
		 WHERE tenant_id = $1 AND patient_id = $2 ORDER BY requested_at DESC LIMIT $3 OFFSET $4`,
		tenantID, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *labResultRepoPG) ListByState(ctx context.Context, tenantID string, state State, limit, offset int) ([]*LabResult, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM lab_result WHERE tenant_id = $1 AND state = $2`,
		tenantID, state).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+labResultCols+` FROM lab_result
		 WHERE tenant_id = $1 AND state = $2 ORDER BY requested_at LIMIT $3 OFFSET $4`,
		tenantID, state, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *labResultRepoPG) collect(rows pgx.Rows, total int) ([]*LabResult, int, error) {
	var items []*LabResult
	for rows.Next() {
		lr, err := r.scanLabResult(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, lr)
	}
	return items, total, rows.Err()
}

// =========== Test Type Repository ===========

type testTypeRepoPG struct{ pool *pgxpool.Pool }

func NewTestTypeRepoPG(pool *pgxpool.Pool) TestTypeRepository {
	return &testTypeRepoPG{pool: pool}
}

func (r *testTypeRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const testTypeCols = `code, display_name, min_age_years, max_age_years, applicable_gender,
	normal_range_low, normal_range_high, active`

func (r *testTypeRepoPG) scanTestType(row pgx.Row) (*TestTypeDefinition, error) {
	var tt TestTypeDefinition
	err := row.Scan(&tt.Code, &tt.DisplayName, &tt.MinAgeYears, &tt.MaxAgeYears,
		&tt.ApplicableGender, &tt.NormalRangeLow, &tt.NormalRangeHigh, &tt.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnknownTestType
	}
	return &tt, err
}

func (r *testTypeRepoPG) GetByCode(ctx context.Context, code string) (*TestTypeDefinition, error) {
	return r.scanTestType(r.conn(ctx).QueryRow(ctx,
		`SELECT `+testTypeCols+` FROM test_type WHERE code = $1`, code))
}

func (r *testTypeRepoPG) List(ctx context.Context, activeOnly bool) ([]*TestTypeDefinition, error) {
	q := `SELECT ` + testTypeCols + ` FROM test_type`
	if activeOnly {
		q += ` WHERE active`
	}
	q += ` ORDER BY code`
	rows, err := r.conn(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*TestTypeDefinition
	for rows.Next() {
		tt, err := r.scanTestType(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, tt)
	}
	return items, rows.Err()
}

func (r *testTypeRepoPG) Upsert(ctx context.Context, tt *TestTypeDefinition) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO test_type (code, display_name, min_age_years, max_age_years, applicable_gender,
			normal_range_low, normal_range_high, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (code) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			min_age_years = EXCLUDED.min_age_years,
			max_age_years = EXCLUDED.max_age_years,
			applicable_gender = EXCLUDED.applicable_gender,
			normal_range_low = EXCLUDED.normal_range_low,
			normal_range_high = EXCLUDED.normal_range_high,
			active = EXCLUDED.active`,
		tt.Code, tt.DisplayName, tt.MinAgeYears, tt.MaxAgeYears, tt.ApplicableGender,
		tt.NormalRangeLow, tt.NormalRangeHigh, tt.Active)
	return err
}
