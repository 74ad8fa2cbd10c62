// Package sqlerr turns Postgres failures into the goerror sentinels that use
// cases branch on.
package sqlerr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
)

// SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Map returns:
//   - goerror.ErrNotFound for pgx.ErrNoRows
//   - goerror.ErrConflict for a unique violation
//   - goerror.ErrMissingReference for a foreign key violation
//
// The constraint name is kept in the message. Anything else is returned as is.
func Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", goerror.ErrConflict, pgErr.ConstraintName)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", goerror.ErrMissingReference, pgErr.ConstraintName)
	default:
		return err
	}
}

// Expected reports whether err is one of the sentinels of Map. Those are
// answered by use cases and are not failures of the query itself.
func Expected(err error) bool {
	return errors.Is(err, goerror.ErrNotFound) ||
		errors.Is(err, goerror.ErrConflict) ||
		errors.Is(err, goerror.ErrMissingReference)
}
