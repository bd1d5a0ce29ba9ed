package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// wrapWriteError maps unique constraint violations onto apperr.ErrConflict and
// wraps everything else with the failed operation.
func wrapWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to %s: %w", op, apperr.Conflict("Resource already exists"))
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// sqlite reports constraint failures as plain driver errors
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
