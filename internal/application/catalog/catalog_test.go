package catalog

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/infrastructure/memory"
)

const company = "company-1"

type staticSheet [][]string

func (s staticSheet) ReadRows(io.Reader) ([][]string, error) { return s, nil }

func TestItem_CRUD(t *testing.T) {
	ctx := context.Background()
	uc := NewItemUseCase(memory.NewCatalogItemRepository(memory.NewStore()), nil, zerolog.Nop())

	created, err := uc.Create(ctx, company, dto.CreateCatalogItemRequest{
		Name: " Consultoría ", UnitPrice: dto.Num("150000"), Unit: "hora", TaxRate: dto.Num(19),
	})
	require.NoError(t, err)
	assert.Equal(t, "Consultoría", created.Name)
	assert.Equal(t, "150000.00", created.UnitPrice)
	require.NotNil(t, created.TaxRate)
	assert.Equal(t, "19.00", *created.TaxRate)

	var patch dto.UpdateCatalogItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tax_rate": null, "unit_price": "0.125"}`), &patch))
	updated, err := uc.Update(ctx, company, created.ID, patch)
	require.NoError(t, err)
	assert.Nil(t, updated.TaxRate)
	assert.Equal(t, "0.125", updated.UnitPrice)

	_, err = uc.Get(ctx, "otra-empresa", created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, company, dto.CreateCatalogItemRequest{Name: "x", UnitPrice: dto.Num(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	for _, price := range []string{"1e20", "12345678901", "0.00001"} {
		_, err = uc.Create(ctx, company, dto.CreateCatalogItemRequest{Name: "x", UnitPrice: dto.Num(price)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, price)
	}

	require.NoError(t, uc.Delete(ctx, company, created.ID))
	_, err = uc.Get(ctx, company, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItem_Import(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCatalogItemRepository(memory.NewStore())
	sheet := staticSheet{
		{"Name", "Unit_Price", "Tax_Rate", "Unit"},
		{"Hora soporte", "85000", "19", "hora"},
		{"", "10", "", ""},
		{},
		{"Licencia", "abc"},
		{"Caja", "12.5"},
		{"Tasa mala", "1", "120"},
	}
	uc := NewItemUseCase(repo, sheet, zerolog.Nop())

	res, err := uc.Import(ctx, company, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, 5, res.Errors[1].Row)
	assert.Equal(t, 7, res.Errors[2].Row)

	list, err := uc.List(ctx, company, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Caja", list.Items[0].Name)
	assert.Nil(t, list.Items[0].TaxRate)
}

func TestItem_ImportSinColumnaObligatoria(t *testing.T) {
	uc := NewItemUseCase(memory.NewCatalogItemRepository(memory.NewStore()), staticSheet{{"name", "unit"}}, zerolog.Nop())
	_, err := uc.Import(context.Background(), company, strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMaster_CopyToCompany(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	items := memory.NewCatalogItemRepository(store)
	uc := NewMasterUseCase(memory.NewMasterItemRepository(store), items)

	m, err := uc.Create(ctx, dto.CreateCatalogItemRequest{Name: "Transporte", UnitPrice: dto.Num(50000), TaxRate: dto.Num(5)})
	require.NoError(t, err)
	assert.Empty(t, m.CompanyID)

	cp, err := uc.CopyToCompany(ctx, company, m.ID)
	require.NoError(t, err)
	assert.Equal(t, company, cp.CompanyID)
	assert.Equal(t, m.ID, cp.MasterItemID)
	assert.NotEqual(t, m.ID, cp.ID)
	assert.Equal(t, "50000.00", cp.UnitPrice)

	_, err = uc.CopyToCompany(ctx, company, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestTerm_UnSoloPorDefecto(t *testing.T) {
	ctx := context.Background()
	uc := NewTermUseCase(memory.NewTermRepository(memory.NewStore()))

	a, err := uc.Create(ctx, company, dto.CreateTermRequest{Title: "A", Body: "Pago a 30 días", IsDefault: true})
	require.NoError(t, err)
	b, err := uc.Create(ctx, company, dto.CreateTermRequest{Title: "B", Body: "Contado", IsDefault: true})
	require.NoError(t, err)

	list, err := uc.List(ctx, company)
	require.NoError(t, err)
	defaults := 0
	for _, term := range list {
		if term.IsDefault {
			defaults++
			assert.Equal(t, b.ID, term.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	yes := true
	_, err = uc.Update(ctx, company, a.ID, dto.UpdateTermRequest{IsDefault: &yes})
	require.NoError(t, err)
	list, err = uc.List(ctx, company)
	require.NoError(t, err)
	for _, term := range list {
		assert.Equal(t, term.ID == a.ID, term.IsDefault)
	}

	assert.ErrorIs(t, uc.Delete(ctx, "otra", a.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, company, a.ID))
}
