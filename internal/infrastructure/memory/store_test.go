package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
	"github.com/jhoicas/facturador-api/internal/infrastructure/memory"
)

func newInvoice(id string) *entity.Document {
	return &entity.Document{ID: id, Kind: entity.KindInvoice, CompanyID: "c1", Number: "FV-" + id}
}

func TestRunBilling_ErrorRestauraSnapshot(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	docs := memory.NewDocumentRepository(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := runner.RunBilling(ctx, func(d repository.DocumentRepository, _ repository.LineItemRepository) error {
		require.NoError(t, d.Create(ctx, newInvoice("d1")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := docs.GetByID(ctx, entity.KindInvoice, "d1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunBilling_PanicRestauraSnapshotYLiberaLock(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	docs := memory.NewDocumentRepository(store)
	ctx := context.Background()

	assert.PanicsWithValue(t, "boom", func() {
		_ = runner.RunBilling(ctx, func(d repository.DocumentRepository, _ repository.LineItemRepository) error {
			require.NoError(t, d.Create(ctx, newInvoice("d1")))
			panic("boom")
		})
	})

	got, err := docs.GetByID(ctx, entity.KindInvoice, "d1")
	require.NoError(t, err)
	assert.Nil(t, got, "el documento creado antes del panic no debe persistir")

	// El lock quedó libre: una transacción posterior confirma normalmente.
	err = runner.RunBilling(ctx, func(d repository.DocumentRepository, _ repository.LineItemRepository) error {
		return d.Create(ctx, newInvoice("d2"))
	})
	require.NoError(t, err)
	got, err = docs.GetByID(ctx, entity.KindInvoice, "d2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "FV-d2", got.Number)
}
