package postgresql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/balance"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// ErrForeignKey is returned when a row references an employee that does not exist.
var ErrForeignKey = errors.New("referenced record does not exist")

// translatePgError maps constraint violations to domain errors. onUnique is
// returned for unique violations; a nil onUnique keeps the driver error.
func translatePgError(err error, onUnique error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		if onUnique != nil {
			return onUnique
		}
	case foreignKeyViolationCode:
		return fmt.Errorf("%w: %s", ErrForeignKey, pgErr.ConstraintName)
	case checkViolationCode:
		if strings.HasPrefix(pgErr.ConstraintName, "chk_employees_") {
			return fmt.Errorf("%w: %s", balance.ErrInvalidBalance, pgErr.ConstraintName)
		}
	}
	return err
}
