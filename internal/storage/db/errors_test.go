package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrors(t *testing.T) {
	uniq := fmt.Errorf("insert product: %w", &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})

	t.Run("Should match wrapped unique violation", func(t *testing.T) {
		assert.True(t, IsUniqueViolation(uniq, ""))
		assert.True(t, IsUniqueViolation(uniq, "products_sku_key"))
		assert.False(t, IsUniqueViolation(uniq, "categories_name_key"))
	})

	t.Run("Should not match other codes", func(t *testing.T) {
		assert.False(t, IsForeignKeyViolation(uniq, ""))
		assert.False(t, IsCheckViolation(errors.New("boom"), ""))
		assert.True(t, IsCheckViolation(&pgconn.PgError{Code: "23514"}, ""))
	})
}
