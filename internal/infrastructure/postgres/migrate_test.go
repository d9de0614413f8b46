package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturador-api/internal/domain"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/f?sslmode=disable", migrateURL("postgres://u:p@db:5432/f?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/f", migrateURL("postgresql://u@db/f"))
	assert.Equal(t, "pgx5://ya/listo", migrateURL("pgx5://ya/listo"))
}

func TestTableFor(t *testing.T) {
	inv, err := tableFor("invoice")
	assert.NoError(t, err)
	assert.Equal(t, "invoice_items", inv.items)
	assert.Equal(t, "source_quotation_id", inv.linkCol)

	q, err := tableFor("quotation")
	assert.NoError(t, err)
	assert.Equal(t, "valid_until", q.dueCol)

	_, err = tableFor("remision")
	assert.Error(t, err)
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("5b0f6f0e-8a4f-4a39-9d59-6a3c9b1f2e10"))
	assert.False(t, validID("nadie"))
	assert.False(t, validID(""))
}

func TestIsNumericOverflow(t *testing.T) {
	overflow := fmt.Errorf("update invoice totals: %w", &pgconn.PgError{Code: "22003", Message: "numeric field overflow"})
	assert.True(t, isNumericOverflow(overflow))
	assert.False(t, isNumericOverflow(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isNumericOverflow(errors.New("22003")))

	assert.ErrorIs(t, errNumericOverflow, domain.ErrInvalidInput)
	assert.True(t, domain.IsValidation(errNumericOverflow))
}
