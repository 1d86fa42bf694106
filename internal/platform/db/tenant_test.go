package db

import (
	"context"
	"testing"
)

func TestValidTenantID(t *testing.T) {
	valid := []string{"default", "acme", "clinic_7", "north-west", "T1"}
	for _, id := range valid {
		if !ValidTenantID(id) {
			t.Errorf("expected %q to be valid", id)
		}
	}

	invalid := []string{"", "acme;drop", "a b", "tenant.x", "café"}
	for _, id := range invalid {
		if ValidTenantID(id) {
			t.Errorf("expected %q to be invalid", id)
		}
	}
}

func TestWithTenant(t *testing.T) {
	ctx, err := WithTenant(context.Background(), "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := TenantFromContext(ctx); got != "acme" {
		t.Errorf("expected tenant acme, got %q", got)
	}
}

func TestWithTenant_Invalid(t *testing.T) {
	if _, err := WithTenant(context.Background(), "bad tenant"); err == nil {
		t.Error("expected error for malformed tenant id")
	}
}

func TestTenantFromContext_Missing(t *testing.T) {
	if got := TenantFromContext(context.Background()); got != "" {
		t.Errorf("expected empty tenant, got %q", got)
	}
}

func TestConnFromContext_Missing(t *testing.T) {
	if ConnFromContext(context.Background()) != nil {
		t.Error("expected nil connection for plain context")
	}
}
