package db

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const (
	// TenantIDKey carries the tenant identifier through a request context.
	TenantIDKey contextKey = "tenant_id"
	// DBConnKey carries a transaction-scoped connection through a context.
	DBConnKey contextKey = "db_conn"
)

var tenantIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidTenantID reports whether id is a well-formed tenant identifier.
func ValidTenantID(id string) bool {
	return id != "" && tenantIDPattern.MatchString(id)
}

// WithTenant validates the tenant identifier and attaches it to the context.
// All repository queries are filtered by tenant id; records never leak across
// tenants.
func WithTenant(ctx context.Context, tenantID string) (context.Context, error) {
	if !ValidTenantID(tenantID) {
		return nil, fmt.Errorf("invalid tenant identifier: %q", tenantID)
	}
	return context.WithValue(ctx, TenantIDKey, tenantID), nil
}

// TenantFromContext retrieves the tenant ID from context.
func TenantFromContext(ctx context.Context) string {
	tid, _ := ctx.Value(TenantIDKey).(string)
	return tid
}

// ConnFromContext retrieves the transaction-scoped connection from context.
// Returns nil when the context carries no open transaction, in which case
// repositories fall back to the shared pool.
func ConnFromContext(ctx context.Context) Queryable {
	q, _ := ctx.Value(DBConnKey).(Queryable)
	return q
}

// TenantInfo is a row of the tenant registry.
type TenantInfo struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time
}

// CreateTenant registers a tenant. Creating an existing tenant is a no-op.
func CreateTenant(ctx context.Context, pool *pgxpool.Pool, id, displayName string) error {
	if !ValidTenantID(id) {
		return fmt.Errorf("invalid tenant identifier: %q", id)
	}
	if displayName == "" {
		displayName = id
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO tenant (id, display_name) VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING`, id, displayName)
	return err
}

// ListTenants returns all registered tenants ordered by id.
func ListTenants(ctx context.Context, pool *pgxpool.Pool) ([]TenantInfo, error) {
	rows, err := pool.Query(ctx, `SELECT id, display_name, created_at FROM tenant ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tenants []TenantInfo
	for rows.Next() {
		var t TenantInfo
		if err := rows.Scan(&t.ID, &t.DisplayName, &t.CreatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}
