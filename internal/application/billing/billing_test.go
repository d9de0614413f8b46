package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
	"github.com/jhoicas/facturador-api/internal/infrastructure/memory"
)

const testCompany = "company-1"

type fixture struct {
	store      *memory.Store
	tx         BillingTxRunner
	recalc     *Recalculator
	invoices   *DocumentUseCase
	quotations *DocumentUseCase
	invItems   *LineItemUseCase
	quoteItems *LineItemUseCase
	conversion *ConversionUseCase
	customerID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{store: store, tx: memory.NewTxRunner(store), recalc: NewRecalculator(zerolog.Nop())}
	f.build()

	customers := memory.NewCustomerRepository(store)
	c := &entity.Customer{ID: "cust-1", CompanyID: testCompany, Name: "Acme SAS", TaxID: "900123456"}
	require.NoError(t, customers.Create(context.Background(), c))
	f.customerID = c.ID
	return f
}

func (f *fixture) build() {
	repos := DocumentRepos{
		Documents: memory.NewDocumentRepository(f.store),
		Items:     memory.NewLineItemRepository(f.store),
		Customers: memory.NewCustomerRepository(f.store),
		Terms:     memory.NewTermRepository(f.store),
		Catalog:   memory.NewCatalogItemRepository(f.store),
	}
	f.invoices = NewDocumentUseCase(entity.KindInvoice, f.tx, repos, f.recalc, zerolog.Nop())
	f.quotations = NewDocumentUseCase(entity.KindQuotation, f.tx, repos, f.recalc, zerolog.Nop())
	f.invItems = NewLineItemUseCase(entity.KindInvoice, f.tx, repos.Documents, repos.Items, repos.Catalog, f.recalc)
	f.quoteItems = NewLineItemUseCase(entity.KindQuotation, f.tx, repos.Documents, repos.Items, repos.Catalog, f.recalc)
	f.conversion = NewConversionUseCase(f.tx, f.invoices, f.recalc, zerolog.Nop())
}

func (f *fixture) newInvoice(t *testing.T, taxRate any) *dto.DocumentResponse {
	t.Helper()
	req := dto.CreateDocumentRequest{CustomerID: f.customerID}
	if taxRate != nil {
		req.TaxRate = dto.Num(taxRate)
	}
	doc, err := f.invoices.Create(context.Background(), testCompany, req)
	require.NoError(t, err)
	return doc
}

func line(desc string, qty, price, disc any) dto.CreateLineItemRequest {
	in := dto.CreateLineItemRequest{Description: desc, Quantity: dto.Num(qty), UnitPrice: dto.Num(price)}
	if disc != nil {
		in.Discount = dto.Num(disc)
	}
	return in
}

// assertConsistent verifica los totales del documento contra sus líneas actuales.
func assertConsistent(t *testing.T, uc *DocumentUseCase, id string) *dto.DocumentResponse {
	t.Helper()
	doc, err := uc.Get(context.Background(), testCompany, id)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, it := range doc.Items {
		sum = sum.Add(decimal.RequireFromString(it.Amount))
	}
	assert.Equal(t, sum.StringFixed(2), doc.Subtotal, "subtotal debe ser la suma de las líneas")

	hundred := decimal.NewFromInt(100)
	disc := decimal.RequireFromString(doc.Discount)
	discounted := sum.Mul(hundred.Sub(disc)).Div(hundred).Round(2)
	tax := decimal.Zero
	if doc.TaxRate != nil {
		tax = discounted.Mul(decimal.RequireFromString(*doc.TaxRate)).Div(hundred).Round(2)
	}
	assert.Equal(t, discounted.StringFixed(2), doc.DiscountedSubtotal)
	assert.Equal(t, tax.StringFixed(2), doc.Tax)
	assert.Equal(t, discounted.Add(tax).StringFixed(2), doc.Total)
	return doc
}

func TestLineItem_Create_CalculaAmount(t *testing.T) {
	f := newFixture(t)
	doc := f.newInvoice(t, nil)

	it, err := f.invItems.Create(context.Background(), testCompany, doc.ID, line("Servicio", 3, "10.00", 10))
	require.NoError(t, err)
	assert.Equal(t, "27.00", it.Amount)
	assert.Equal(t, "10.00", it.UnitPrice)
	assert.Equal(t, "3", it.Quantity)

	got := assertConsistent(t, f.invoices, doc.ID)
	assert.Equal(t, "27.00", got.Total)
}

func TestLineItem_LimitesDeDescuento(t *testing.T) {
	f := newFixture(t)
	doc := f.newInvoice(t, nil)

	full, err := f.invItems.Create(context.Background(), testCompany, doc.ID, line("Regalo", 5, "99.99", 100))
	require.NoError(t, err)
	assert.Equal(t, "0.00", full.Amount)

	none, err := f.invItems.Create(context.Background(), testCompany, doc.ID, line("Normal", 4, "12.50", 0))
	require.NoError(t, err)
	assert.Equal(t, "50.00", none.Amount)

	assertConsistent(t, f.invoices, doc.ID)
}

func TestLineItem_Escenarios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.newInvoice(t, 20)

	a, err := f.invItems.Create(ctx, testCompany, doc.ID, line("A", 1, 100, 0))
	require.NoError(t, err)
	assert.Equal(t, "100.00", a.Amount)
	b, err := f.invItems.Create(ctx, testCompany, doc.ID, line("B", 2, 50, 10))
	require.NoError(t, err)
	assert.Equal(t, "90.00", b.Amount)

	// Escenario A
	got := assertConsistent(t, f.invoices, doc.ID)
	assert.Equal(t, "190.00", got.Subtotal)
	assert.Equal(t, "190.00", got.DiscountedSubtotal)
	assert.Equal(t, "38.00", got.Tax)
	assert.Equal(t, "228.00", got.Total)

	// Escenario B
	require.NoError(t, f.invItems.Delete(ctx, testCompany, doc.ID, b.ID))
	got = assertConsistent(t, f.invoices, doc.ID)
	assert.Equal(t, "100.00", got.Subtotal)
	assert.Equal(t, "20.00", got.Tax)
	assert.Equal(t, "120.00", got.Total)

	// Escenario C
	upd, err := f.invItems.Update(ctx, testCompany, doc.ID, a.ID, dto.UpdateLineItemRequest{Quantity: dto.Num(5)})
	require.NoError(t, err)
	assert.Equal(t, "500.00", upd.Amount)
	got = assertConsistent(t, f.invoices, doc.ID)
	assert.Equal(t, "500.00", got.Subtotal)
	assert.Equal(t, "100.00", got.Tax)
	assert.Equal(t, "600.00", got.Total)
}

func TestLineItem_InvarianteTrasCadaMutacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.newInvoice(t, "19")
	_, err := f.invoices.Update(ctx, testCompany, doc.ID, dto.UpdateDocumentRequest{Discount: dto.Num("7.5")})
	require.NoError(t, err)

	var ids []string
	inputs := []dto.CreateLineItemRequest{
		line("a", "1.5", "33.33", "0"),
		line("b", 7, "13.37", "12.5"),
		line("c", "0.125", "8", 3),
		line("d", 2, "0.005", 0),
	}
	for _, in := range inputs {
		it, err := f.invItems.Create(ctx, testCompany, doc.ID, in)
		require.NoError(t, err)
		ids = append(ids, it.ID)
		assertConsistent(t, f.invoices, doc.ID)
	}

	desc := "solo descripción"
	_, err = f.invItems.Update(ctx, testCompany, doc.ID, ids[0], dto.UpdateLineItemRequest{Description: &desc})
	require.NoError(t, err)
	assertConsistent(t, f.invoices, doc.ID)

	_, err = f.invItems.Update(ctx, testCompany, doc.ID, ids[1], dto.UpdateLineItemRequest{
		UnitPrice: dto.Num("20"),
		Discount:  dto.Num(nil),
	})
	require.NoError(t, err)
	assertConsistent(t, f.invoices, doc.ID)

	for _, id := range ids {
		require.NoError(t, f.invItems.Delete(ctx, testCompany, doc.ID, id))
		assertConsistent(t, f.invoices, doc.ID)
	}
	got := assertConsistent(t, f.invoices, doc.ID)
	assert.Equal(t, "0.00", got.Total)
	assert.Empty(t, got.Items)
}

func TestLineItem_Validacion(t *testing.T) {
	f := newFixture(t)
	doc := f.newInvoice(t, nil)
	ctx := context.Background()

	cases := map[string]dto.CreateLineItemRequest{
		"descripción vacía":   line("   ", 1, 1, 0),
		"cantidad cero":       line("x", 0, 1, 0),
		"cantidad negativa":   line("x", -1, 1, 0),
		"precio negativo":     line("x", 1, "-0.01", 0),
		"descuento > 100":     line("x", 1, 1, "100.01"),
		"descuento negativo":  line("x", 1, 1, -5),
		"número inválido":     line("x", "abc", 1, 0),
		"cantidad ausente":    {Description: "x", UnitPrice: dto.Num(1)},
		"precio nulo":         {Description: "x", Quantity: dto.Num(1), UnitPrice: dto.Num(nil)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.invItems.Create(ctx, testCompany, doc.ID, in)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "%v", err)
		})
	}

	got := assertConsistent(t, f.invoices, doc.ID)
	assert.Empty(t, got.Items)
}

func TestLineItem_RechazaValoresFueraDeRango(t *testing.T) {
	f := newFixture(t)
	doc := f.newInvoice(t, nil)
	ctx := context.Background()

	cases := map[string]dto.CreateLineItemRequest{
		"cantidad 1e20":             line("x", "1e20", 1, 0),
		"cantidad con 11 enteros":   line("x", "10000000000", 1, 0),
		"precio con 11 enteros":     line("x", 1, "12345678901", 0),
		"precio como float enorme":  line("x", 1, 1e15, 0),
		"monto de línea desbordado": line("x", "9999999999", "9999999999", 0),
		"cantidad con 5 decimales":  line("x", "1.23456", 1, 0),
		"precio con 5 decimales":    line("x", 1, "0.00001", 0),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.invItems.Create(ctx, testCompany, doc.ID, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	// Exponentes absurdos se rechazan al parsear, antes de cualquier reescalado.
	for _, qty := range []string{"1e3000000", "1e-3000000"} {
		_, err := f.invItems.Create(ctx, testCompany, doc.ID, line("x", qty, 1, 0))
		assert.True(t, domain.IsValidation(err), "%s: %v", qty, err)
	}

	got := assertConsistent(t, f.invoices, doc.ID)
	assert.Empty(t, got.Items)

	// Ceros sobrantes no cuentan como decimales de más.
	it, err := f.invItems.Create(ctx, testCompany, doc.ID, line("x", "1.50000", "9999999999.9999", 0))
	require.NoError(t, err)
	assert.Equal(t, "15000000000.00", it.Amount)
}

func TestLineItem_ActualizacionFueraDeRangoNoModifica(t *testing.T) {
	f := newFixture(t)
	doc := f.newInvoice(t, nil)
	ctx := context.Background()
	it, err := f.invItems.Create(ctx, testCompany, doc.ID, line("x", 2, "10", 0))
	require.NoError(t, err)

	for _, patch := range []dto.UpdateLineItemRequest{
		{Quantity: dto.Num("1e20")},
		{UnitPrice: dto.Num("0.123456")},
		{Quantity: dto.Num("9999999999"), UnitPrice: dto.Num("9999999999")},
	} {
		_, err := f.invItems.Update(ctx, testCompany, doc.ID, it.ID, patch)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	got := assertConsistent(t, f.invoices, doc.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "20.00", got.Items[0].Amount)
	assert.Equal(t, "20.00", got.Total)
}

func TestLineItem_TotalesDesbordadosRevierten(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Cada línea cabe, la suma no.
	doc := f.newInvoice(t, nil)
	_, err := f.invItems.Create(ctx, testCompany, doc.ID, line("a", "1000000", "600000", 0))
	require.NoError(t, err)
	_, err = f.invItems.Create(ctx, testCompany, doc.ID, line("b", "1000000", "600000", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got := assertConsistent(t, f.invoices, doc.ID)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, "600000000000.00", got.Total)

	// El subtotal cabe pero el impuesto lleva el total por encima del máximo.
	taxed := f.newInvoice(t, "100")
	_, err = f.invItems.Create(ctx, testCompany, taxed.ID, line("a", "1000000", "600000", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got = assertConsistent(t, f.invoices, taxed.ID)
	assert.Empty(t, got.Items)
	assert.Equal(t, "0.00", got.Total)
}

func TestLineItem_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.newInvoice(t, nil)
	other := f.newInvoice(t, nil)
	it, err := f.invItems.Create(ctx, testCompany, doc.ID, line("x", 1, 1, 0))
	require.NoError(t, err)

	_, err = f.invItems.Create(ctx, testCompany, "no-existe", line("x", 1, 1, 0))
	assert.ErrorIs(t, err, domain.ErrParentNotFound)

	_, err = f.invItems.Create(ctx, "otra-empresa", doc.ID, line("x", 1, 1, 0))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.invItems.Update(ctx, testCompany, other.ID, it.ID, dto.UpdateLineItemRequest{Quantity: dto.Num(2)})
	assert.ErrorIs(t, err, domain.ErrItemNotFound, "la línea pertenece a otro documento")

	err = f.invItems.Delete(ctx, testCompany, doc.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	// una cotización no ve las líneas de una factura con el mismo id de padre
	_, err = f.quoteItems.List(ctx, testCompany, doc.ID)
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
}

func TestLineItem_DocumentoTerminalNoAdmiteCambios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.newInvoice(t, nil)
	it, err := f.invItems.Create(ctx, testCompany, doc.ID, line("x", 1, 10, 0))
	require.NoError(t, err)

	_, err = f.invoices.UpdateStatus(ctx, testCompany, entity.RoleVendedor, doc.ID, dto.UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	_, err = f.invItems.Create(ctx, testCompany, doc.ID, line("y", 1, 1, 0))
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.invItems.Update(ctx, testCompany, doc.ID, it.ID, dto.UpdateLineItemRequest{Quantity: dto.Num(3)})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, f.invItems.Delete(ctx, testCompany, doc.ID, it.ID), domain.ErrConflict)

	got := assertConsistent(t, f.invoices, doc.ID)
	assert.Equal(t, "10.00", got.Total)
}

func TestLineItem_PrecargaDesdeCatalogo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rate := decimal.NewFromInt(19)
	catalog := memory.NewCatalogItemRepository(f.store)
	require.NoError(t, catalog.Create(ctx, &entity.CatalogItem{
		ID: "cat-1", CompanyID: testCompany, Name: "Hora consultoría", UnitPrice: decimal.RequireFromString("120000"), TaxRate: &rate,
	}))
	doc := f.newInvoice(t, nil)

	it, err := f.invItems.Create(ctx, testCompany, doc.ID, dto.CreateLineItemRequest{CatalogItemID: "cat-1", Quantity: dto.Num(2)})
	require.NoError(t, err)
	assert.Equal(t, "Hora consultoría", it.Description)
	assert.Equal(t, "240000.00", it.Amount)

	_, err = f.invItems.Create(ctx, "otra-empresa", doc.ID, dto.CreateLineItemRequest{CatalogItemID: "cat-1", Quantity: dto.Num(1)})
	assert.True(t, domain.IsValidation(err))
}

// failingTotals simula un fallo de escritura en el recálculo.
type failingTotals struct {
	repository.DocumentRepository
}

func (failingTotals) UpdateTotals(context.Context, entity.DocumentKind, string, decimal.Decimal, decimal.Decimal, decimal.Decimal) error {
	return errors.New("disco lleno")
}

type failingTx struct{ inner BillingTxRunner }

func (f failingTx) RunBilling(ctx context.Context, fn func(repository.DocumentRepository, repository.LineItemRepository) error) error {
	return f.inner.RunBilling(ctx, func(d repository.DocumentRepository, i repository.LineItemRepository) error {
		return fn(failingTotals{d}, i)
	})
}

func TestLineItem_FalloDeRecalculoSePropagaYRevierte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.newInvoice(t, nil)

	broken := NewLineItemUseCase(entity.KindInvoice, failingTx{f.tx},
		memory.NewDocumentRepository(f.store), memory.NewLineItemRepository(f.store),
		memory.NewCatalogItemRepository(f.store), f.recalc)

	_, err := broken.Create(ctx, testCompany, doc.ID, line("x", 1, 10, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disco lleno")

	items, err := f.invItems.List(ctx, testCompany, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "la línea no debe quedar persistida si el recálculo falla")
}

func TestRecalculate_Idempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.newInvoice(t, "16")
	_, err := f.invItems.Create(ctx, testCompany, doc.ID, line("x", "3", "33.33", "5"))
	require.NoError(t, err)

	var first, second *entity.Document
	require.NoError(t, f.tx.RunBilling(ctx, func(d repository.DocumentRepository, i repository.LineItemRepository) error {
		var err error
		first, err = f.recalc.Recalculate(ctx, d, i, entity.KindInvoice, doc.ID)
		return err
	}))
	require.NoError(t, f.tx.RunBilling(ctx, func(d repository.DocumentRepository, i repository.LineItemRepository) error {
		var err error
		second, err = f.recalc.Recalculate(ctx, d, i, entity.KindInvoice, doc.ID)
		return err
	}))
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestRecalculate_DocumentoInexistenteEsNoOp(t *testing.T) {
	f := newFixture(t)
	doc, err := f.recalc.Recalculate(context.Background(),
		memory.NewDocumentRepository(f.store), memory.NewLineItemRepository(f.store),
		entity.KindQuotation, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestLineItem_ConcurrenciaNoPierdeLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.newInvoice(t, nil)

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := f.invItems.Create(ctx, testCompany, doc.ID, line("x", 1, 1, 0))
			errs <- err
		}()
	}
	deadline := time.After(5 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case err := <-errs:
			require.NoError(t, err)
		case <-deadline:
			t.Fatal("timeout")
		}
	}
	got := assertConsistent(t, f.invoices, doc.ID)
	assert.Equal(t, "20.00", got.Total)
}
