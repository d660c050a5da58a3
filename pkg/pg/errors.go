package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConnectFailed indicates the pool could not be established within
	// the retry budget.
	ErrConnectFailed = errors.New("pg.connect_failed")

	// ErrInvalidConfig indicates the connection string could not be parsed.
	ErrInvalidConfig = errors.New("pg.invalid_config")

	// ErrHealthcheckFailed indicates a ping against the pool failed.
	ErrHealthcheckFailed = errors.New("pg.healthcheck_failed")

	// ErrMigrateFailed wraps schema migration failures.
	ErrMigrateFailed = errors.New("pg.migrate_failed")
)

// IsNotFound reports whether err is a no-rows result.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique constraint violation
// (SQLSTATE 23505), the signal the stores translate into "already taken".
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err is a referential integrity
// violation (SQLSTATE 23503).
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
