package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/infrastructure/memory"
	"github.com/jhoicas/facturador-api/pkg/jwt"
)

func setup(t *testing.T) (*AuthUseCase, string) {
	t.Helper()
	store := memory.NewStore()
	companies := memory.NewCompanyRepository(store)
	require.NoError(t, companies.Create(context.Background(), &entity.Company{ID: "c1", Name: "Acme", TaxID: "900"}))
	uc := NewAuthUseCase(memory.NewUserRepository(store), companies, jwt.Options{Secret: "s3cret", Issuer: "test", ExpMinutes: 5})
	return uc, "c1"
}

func TestRegisterYLogin(t *testing.T) {
	uc, companyID := setup(t)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, companyID, dto.RegisterRequest{Email: "Ana@Acme.co", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.co", u.Email)
	assert.Equal(t, entity.RoleVendedor, u.Role)

	_, err = uc.RegisterUser(ctx, companyID, dto.RegisterRequest{Email: "ana@acme.co", Password: "password2"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@acme.co", Password: "password1"})
	require.NoError(t, err)
	id, err := jwt.Parse("s3cret", res.Token)
	require.NoError(t, err)
	assert.Equal(t, companyID, id.CompanyID)
	assert.Equal(t, entity.RoleVendedor, id.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.co", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@acme.co", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegister_Validacion(t *testing.T) {
	uc, companyID := setup(t)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, companyID, dto.RegisterRequest{Email: "x@acme.co", Password: "password1", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, companyID, dto.RegisterRequest{Email: "x@acme.co", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, "no-existe", dto.RegisterRequest{Email: "x@acme.co", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
