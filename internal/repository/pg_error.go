package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	pkgerrors "simlab/pkg/errors"
)

// SQLSTATE codes the store reports for constraint violations
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
)

// sqlState extracts the SQLSTATE from a pgx or lib/pq error.
func sqlState(err error) (code, constraint string, ok bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}

// classify maps a driver error on insert/update to an error kind. A foreign
// key violation there means a referenced row is missing.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, pkgerrors.ErrOptimisticLock) {
		return err
	}
	code, constraint, ok := sqlState(err)
	if !ok {
		return fmt.Errorf("%w: %v", pkgerrors.ErrStore, err)
	}
	switch code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", pkgerrors.ErrDuplicateKey, constraint)
	case pgExclusionViolation:
		return fmt.Errorf("%w: %s", pkgerrors.ErrRoomConflict, constraint)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: referenced record (%s)", pkgerrors.ErrNotFound, constraint)
	}
	return fmt.Errorf("%w: %v", pkgerrors.ErrStore, err)
}

// classifyDelete like classify, but a foreign key violation means other rows
// still reference the one being deleted.
func classifyDelete(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := sqlState(err); ok && code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", pkgerrors.ErrDependencyExists, constraint)
	}
	return classify(err)
}
