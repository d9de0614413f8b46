package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/facturador-api/internal/application/auth"
	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

const defaultCurrency = "COP"

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo  repository.CompanyRepository
	users repository.UserRepository
	log   zerolog.Logger
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, users repository.UserRepository, log zerolog.Logger) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, users: users, log: log}
}

// Onboard crea una empresa junto con su primer administrador.
// Devuelve domain.ErrDuplicate si el tax_id ya existe y ErrEmailAlreadyExists si el email está tomado.
func (uc *CompanyUseCase) Onboard(ctx context.Context, in dto.CreateCompanyRequest) (*dto.OnboardingResponse, error) {
	name, taxID := strings.TrimSpace(in.Name), strings.TrimSpace(in.TaxID)
	if name == "" || taxID == "" {
		return nil, fmt.Errorf("%w: name y tax_id son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByTaxID(ctx, taxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe una empresa con tax_id %s", domain.ErrDuplicate, taxID)
	}
	taken, err := uc.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.AdminEmail)))
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	now := time.Now().UTC()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		TaxID:     taxID,
		Address:   strings.TrimSpace(in.Address),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Currency:  currency,
		Status:    entity.CompanyStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin, err := auth.NewUser(company.ID, in.AdminEmail, in.AdminPassword, in.AdminName, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	if err := uc.users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("crear administrador: %w", err)
	}

	uc.log.Info().Str("company_id", company.ID).Str("admin_id", admin.ID).Msg("empresa registrada")
	return &dto.OnboardingResponse{
		Company: *entityToCompanyResponse(company),
		Admin:   *auth.ToUserResponse(admin),
	}, nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return entityToCompanyResponse(company), nil
}

// IsActive informa si la empresa existe y no está suspendida.
func (uc *CompanyUseCase) IsActive(ctx context.Context, id string) (bool, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return company != nil && company.Status == entity.CompanyStatusActive, nil
}

// Update aplica los campos presentes. El tax_id no se modifica.
func (uc *CompanyUseCase) Update(ctx context.Context, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if company.Name = strings.TrimSpace(*in.Name); company.Name == "" {
			return nil, fmt.Errorf("%w: name no puede quedar vacío", domain.ErrInvalidInput)
		}
	}
	if in.Address != nil {
		company.Address = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		company.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		company.Email = strings.TrimSpace(*in.Email)
	}
	if in.Currency != nil {
		company.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	company.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Currency:  c.Currency,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
