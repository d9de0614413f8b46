package usecase

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/infrastructure/memory"
)

func TestOnboardYUsuarios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	companies := NewCompanyUseCase(memory.NewCompanyRepository(store), users, zerolog.Nop())

	in := dto.CreateCompanyRequest{
		Name: "Acme SAS", TaxID: "900123456", AdminEmail: "admin@acme.co", AdminPassword: "supersecreto",
	}
	res, err := companies.Onboard(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "COP", res.Company.Currency)
	assert.Equal(t, entity.RoleAdmin, res.Admin.Role)
	assert.Equal(t, res.Company.ID, res.Admin.CompanyID)

	_, err = companies.Onboard(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	in.TaxID = "800"
	_, err = companies.Onboard(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	name := "Acme Colombia SAS"
	upd, err := companies.Update(ctx, res.Company.ID, dto.UpdateCompanyRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, upd.Name)

	uc := NewUserUseCase(users)
	list, err := uc.List(ctx, res.Company.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = uc.GetByID(ctx, "otra", res.Admin.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
