package pg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authcore/pkg/pg"
)

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsNotFound(pgx.ErrNoRows))
		assert.True(t, pg.IsNotFound(fmt.Errorf("query user: %w", pgx.ErrNoRows)))
		assert.False(t, pg.IsNotFound(errors.New("boom")))
		assert.False(t, pg.IsNotFound(nil))
	})

	t.Run("unique violation", func(t *testing.T) {
		t.Parallel()
		uniq := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		assert.True(t, pg.IsUniqueViolation(uniq))
		assert.True(t, pg.IsUniqueViolation(fmt.Errorf("insert user: %w", uniq)))
		assert.False(t, pg.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
		assert.False(t, pg.IsUniqueViolation(nil))
	})

	t.Run("foreign key violation", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pg.IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
		assert.False(t, pg.IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	})
}
