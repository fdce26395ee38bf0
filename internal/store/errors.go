// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements PostgreSQL persistence for categories and posts.
// Store methods take an explicit context and a shared *sql.DB pool; they
// never hold process-wide session state.
package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness or
	// foreign-key constraint, e.g. a duplicate slug or a post pointing at a
	// missing category. The write is rejected as a whole.
	ErrConflict = errors.New("constraint violation")
)

// PostgreSQL SQLSTATE codes mapped to ErrConflict.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ConstraintError carries the name of the violated constraint alongside
// ErrConflict so callers can tell a duplicate slug from a duplicate name.
type ConstraintError struct {
	Constraint string
	Detail     string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation: %s", e.Constraint)
}

// Unwrap lets errors.Is(err, ErrConflict) match.
func (e *ConstraintError) Unwrap() error { return ErrConflict }

// mapError translates driver errors into the store's sentinel errors.
// Errors that are not constraint violations are returned unchanged.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return &ConstraintError{Constraint: pgErr.ConstraintName, Detail: pgErr.Detail}
		}
	}
	return err
}
