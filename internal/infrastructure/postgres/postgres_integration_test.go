//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/facturador-api/internal/application/billing"
	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/pkg/config"
)

// newTestPool levanta PostgreSQL en un contenedor, aplica las migraciones y devuelve el pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("facturador_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, MigrateUp(dsn, zerolog.Nop()))

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type pgFixture struct {
	invoices   *billing.DocumentUseCase
	quotations *billing.DocumentUseCase
	invItems   *billing.LineItemUseCase
	conversion *billing.ConversionUseCase
	companyID  string
	customerID string
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	ctx := context.Background()
	pool := newTestPool(t)
	now := time.Now().UTC()

	company := &entity.Company{ID: uuid.NewString(), Name: "Demo SAS", TaxID: "900111222", Currency: "COP", Status: entity.CompanyStatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewCompanyRepository(pool).Create(ctx, company))
	customer := &entity.Customer{ID: uuid.NewString(), CompanyID: company.ID, Name: "Acme", TaxID: "800", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewCustomerRepository(pool).Create(ctx, customer))

	tx := NewTxRunner(pool)
	recalc := billing.NewRecalculator(zerolog.Nop())
	repos := billing.DocumentRepos{
		Documents: NewDocumentRepository(pool),
		Items:     NewLineItemRepository(pool),
		Customers: NewCustomerRepository(pool),
		Terms:     NewTermRepository(pool),
		Catalog:   NewCatalogItemRepository(pool),
	}
	f := &pgFixture{companyID: company.ID, customerID: customer.ID}
	f.invoices = billing.NewDocumentUseCase(entity.KindInvoice, tx, repos, recalc, zerolog.Nop())
	f.quotations = billing.NewDocumentUseCase(entity.KindQuotation, tx, repos, recalc, zerolog.Nop())
	f.invItems = billing.NewLineItemUseCase(entity.KindInvoice, tx, repos.Documents, repos.Items, repos.Catalog, recalc)
	f.conversion = billing.NewConversionUseCase(tx, f.invoices, recalc, zerolog.Nop())
	return f
}

func pgLine(desc, qty, price, disc string) dto.CreateLineItemRequest {
	return dto.CreateLineItemRequest{Description: desc, Quantity: dto.Num(qty), UnitPrice: dto.Num(price), Discount: dto.Num(disc)}
}

func TestPostgres_RecalculoDeTotales(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	doc, err := f.invoices.Create(ctx, f.companyID, dto.CreateDocumentRequest{
		CustomerID: f.customerID,
		Discount:   dto.Num("10"),
		TaxRate:    dto.Num("19"),
		Items:      []dto.CreateLineItemRequest{pgLine("A", "2", "100", "0"), pgLine("B", "1", "50.50", "0")},
	})
	require.NoError(t, err)
	assert.Equal(t, "250.50", doc.Subtotal)
	assert.Equal(t, "225.45", doc.DiscountedSubtotal)
	assert.Equal(t, "42.84", doc.Tax)
	assert.Equal(t, "268.29", doc.Total)
	assert.Equal(t, "FAC-000001", doc.Number)

	item, err := f.invItems.Create(ctx, f.companyID, doc.ID, pgLine("C", "3", "9", "0"))
	require.NoError(t, err)
	assert.Equal(t, "27.00", item.Amount)

	require.NoError(t, f.invItems.Delete(ctx, f.companyID, doc.ID, item.ID))
	got, err := f.invoices.Get(ctx, f.companyID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "268.29", got.Total)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "A", got.Items[0].Description)

	_, err = f.invoices.Get(ctx, f.companyID, "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
}

func TestPostgres_LineasConcurrentes(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	doc, err := f.invoices.Create(ctx, f.companyID, dto.CreateDocumentRequest{CustomerID: f.customerID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.invItems.Create(ctx, f.companyID, doc.ID, pgLine("x", "1", "1", "0"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.invoices.Get(ctx, f.companyID, doc.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 8)
	assert.Equal(t, "8.00", got.Total)
}

func TestPostgres_ConversionYBorradoEnCascada(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	quote, err := f.quotations.Create(ctx, f.companyID, dto.CreateDocumentRequest{
		CustomerID: f.customerID,
		Items:      []dto.CreateLineItemRequest{pgLine("Servicio", "1", "1000", "5")},
	})
	require.NoError(t, err)
	for _, s := range []string{"sent", "accepted"} {
		_, err = f.quotations.UpdateStatus(ctx, f.companyID, entity.RoleVendedor, quote.ID, dto.UpdateStatusRequest{Status: s})
		require.NoError(t, err)
	}

	inv, err := f.conversion.Convert(ctx, f.companyID, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, quote.ID, inv.LinkedID)
	assert.Equal(t, "950.00", inv.Total)

	q, err := f.quotations.Get(ctx, f.companyID, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, q.LinkedID)

	require.NoError(t, f.invoices.Delete(ctx, f.companyID, inv.ID))
	q, err = f.quotations.Get(ctx, f.companyID, quote.ID)
	require.NoError(t, err)
	assert.Empty(t, q.LinkedID, "ON DELETE SET NULL limpia el vínculo")
}
