package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

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

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, tenant_id, doctor_id, patient_id, start_time, duration_minutes, status, notes, created_at, updated_at`

func (r *appointmentRepoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.TenantID, &a.DoctorID, &a.PatientID, &a.StartTime,
		&a.DurationMinutes, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	// end_time is stored denormalized so the conflict window filter stays in
	// SQL and can use the (tenant_id, doctor_id, start_time) index.
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, tenant_id, doctor_id, patient_id, start_time, end_time, duration_minutes, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.TenantID, a.DoctorID, a.PatientID, a.StartTime, a.EndTime(), a.DurationMinutes, a.Status, a.Notes)
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET start_time=$3, end_time=$4, duration_minutes=$5, status=$6, notes=$7, updated_at=NOW()
		WHERE tenant_id = $1 AND id = $2`,
		a.TenantID, a.ID, a.StartTime, a.EndTime(), a.DurationMinutes, a.Status, a.Notes)
	return err
}

func (r *appointmentRepoPG) ListConflictCandidates(ctx context.Context, tenantID string, role Role, personID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]*Appointment, error) {
	personCol := "doctor_id"
	if role == RolePatient {
		personCol = "patient_id"
	}

	// Strict half-open overlap: start_time < proposedEnd AND end_time >
	// proposedStart. Back-to-back windows sharing a boundary do not match.
	query := fmt.Sprintf(`SELECT %s FROM appointment
		WHERE tenant_id = $1 AND %s = $2
		  AND status NOT IN ('cancelled', 'no_show')
		  AND start_time < $3 AND end_time > $4`, apptCols, personCol)
	args := []interface{}{tenantID, personID, end, start}

	if excludeID != uuid.Nil {
		query += ` AND id <> $5`
		args = append(args, excludeID)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *appointmentRepoPG) ListByDoctor(ctx context.Context, tenantID string, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.listByPerson(ctx, tenantID, "doctor_id", doctorID, limit, offset)
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, tenantID string, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.listByPerson(ctx, tenantID, "patient_id", patientID, limit, offset)
}

func (r *appointmentRepoPG) listByPerson(ctx context.Context, tenantID, personCol string, personID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM appointment WHERE tenant_id = $1 AND %s = $2`, personCol),
		tenantID, personID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM appointment WHERE tenant_id = $1 AND %s = $2 ORDER BY start_time ASC LIMIT $3 OFFSET $4`, apptCols, personCol),
		tenantID, personID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
