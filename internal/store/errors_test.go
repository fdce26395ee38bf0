package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantConflict bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505", ConstraintName: "posts_slug_key"}, wantConflict: true},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503", ConstraintName: "posts_category_id_fkey"}, wantConflict: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), wantConflict: true},
		{name: "not null violation", err: &pgconn.PgError{Code: "23502"}, wantConflict: false},
		{name: "plain error", err: errors.New("connection reset"), wantConflict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if errors.Is(got, ErrConflict) != tt.wantConflict {
				t.Errorf("errors.Is(mapError(%v), ErrConflict) = %v, want %v", tt.err, !tt.wantConflict, tt.wantConflict)
			}
			if !tt.wantConflict && got != tt.err {
				t.Errorf("non-constraint errors should pass through unchanged")
			}
		})
	}
}

func TestConstraintErrorName(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: "23505", ConstraintName: "categories_slug_key"})
	var ce *ConstraintError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConstraintError, got %T", err)
	}
	if ce.Constraint != "categories_slug_key" {
		t.Errorf("Constraint = %q", ce.Constraint)
	}
}
