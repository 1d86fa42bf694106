package identity

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

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, tenant_id, given_name, family_name, birth_date, gender, active, created_at, updated_at`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.TenantID, &p.GivenName, &p.FamilyName, &p.BirthDate,
		&p.Gender, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, tenant_id, given_name, family_name, birth_date, gender, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.TenantID, p.GivenName, p.FamilyName, p.BirthDate, p.Gender, p.Active)
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET given_name=$3, family_name=$4, birth_date=$5, gender=$6, active=$7, updated_at=NOW()
		WHERE tenant_id = $1 AND id = $2`,
		p.TenantID, p.ID, p.GivenName, p.FamilyName, p.BirthDate, p.Gender, p.Active)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, tenantID string, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM patient WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patient WHERE tenant_id = $1 ORDER BY family_name, given_name LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// =========== Practitioner Repository ===========

type practitionerRepoPG struct{ pool *pgxpool.Pool }

func NewPractitionerRepoPG(pool *pgxpool.Pool) PractitionerRepository {
	return &practitionerRepoPG{pool: pool}
}

func (r *practitionerRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const practitionerCols = `id, tenant_id, given_name, family_name, specialty, active, created_at, updated_at`

func (r *practitionerRepoPG) scanPractitioner(row pgx.Row) (*Practitioner, error) {
	var pr Practitioner
	err := row.Scan(&pr.ID, &pr.TenantID, &pr.GivenName, &pr.FamilyName, &pr.Specialty,
		&pr.Active, &pr.CreatedAt, &pr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPractitionerNotFound
	}
	return &pr, err
}

func (r *practitionerRepoPG) Create(ctx context.Context, pr *Practitioner) error {
	pr.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO practitioner (id, tenant_id, given_name, family_name, specialty, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		pr.ID, pr.TenantID, pr.GivenName, pr.FamilyName, pr.Specialty, pr.Active)
	return err
}

func (r *practitionerRepoPG) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Practitioner, error) {
	return r.scanPractitioner(r.conn(ctx).QueryRow(ctx,
		`SELECT `+practitionerCols+` FROM practitioner WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *practitionerRepoPG) Update(ctx context.Context, pr *Practitioner) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE practitioner SET given_name=$3, family_name=$4, specialty=$5, active=$6, updated_at=NOW()
		WHERE tenant_id = $1 AND id = $2`,
		pr.TenantID, pr.ID, pr.GivenName, pr.FamilyName, pr.Specialty, pr.Active)
	return err
}

func (r *practitionerRepoPG) List(ctx context.Context, tenantID string, limit, offset int) ([]*Practitioner, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM practitioner WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+practitionerCols+` FROM practitioner WHERE tenant_id = $1 ORDER BY family_name, given_name LIMIT $2 OFFSET $3`,
		tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Practitioner
	for rows.Next() {
		pr, err := r.scanPractitioner(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, pr)
	}
	return items, total, rows.Err()
}
