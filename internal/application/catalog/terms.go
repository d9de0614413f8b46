package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/repository"
)

// TermUseCase términos y condiciones. Cada empresa tiene a lo sumo uno por defecto.
type TermUseCase struct {
	repo repository.TermRepository
}

// NewTermUseCase construye el caso de uso.
func NewTermUseCase(repo repository.TermRepository) *TermUseCase {
	return &TermUseCase{repo: repo}
}

// Create agrega un término; si es por defecto desmarca el anterior.
func (uc *TermUseCase) Create(ctx context.Context, companyID string, in dto.CreateTermRequest) (*dto.TermResponse, error) {
	title, body := strings.TrimSpace(in.Title), strings.TrimSpace(in.Body)
	if title == "" || body == "" {
		return nil, fmt.Errorf("%w: title y body son obligatorios", domain.ErrInvalidInput)
	}
	if in.IsDefault {
		if err := uc.repo.ClearDefault(ctx, companyID); err != nil {
			return nil, fmt.Errorf("desmarcar término por defecto: %w", err)
		}
	}
	now := time.Now().UTC()
	t := &entity.Term{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Title:     title,
		Body:      body,
		IsDefault: in.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("crear término: %w", err)
	}
	resp := toTermResponse(t)
	return &resp, nil
}

// List términos de la empresa en orden de creación.
func (uc *TermUseCase) List(ctx context.Context, companyID string) ([]dto.TermResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar términos: %w", err)
	}
	out := make([]dto.TermResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTermResponse(t))
	}
	return out, nil
}

// Update aplica los campos presentes.
func (uc *TermUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateTermRequest) (*dto.TermResponse, error) {
	t, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if t.Title = strings.TrimSpace(*in.Title); t.Title == "" {
			return nil, fmt.Errorf("%w: title no puede quedar vacío", domain.ErrInvalidInput)
		}
	}
	if in.Body != nil {
		if t.Body = strings.TrimSpace(*in.Body); t.Body == "" {
			return nil, fmt.Errorf("%w: body no puede quedar vacío", domain.ErrInvalidInput)
		}
	}
	if in.IsDefault != nil {
		if *in.IsDefault && !t.IsDefault {
			if err := uc.repo.ClearDefault(ctx, companyID); err != nil {
				return nil, fmt.Errorf("desmarcar término por defecto: %w", err)
			}
		}
		t.IsDefault = *in.IsDefault
	}
	t.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("actualizar término: %w", err)
	}
	resp := toTermResponse(t)
	return &resp, nil
}

// Delete elimina el término. Los documentos guardan su propia copia del texto.
func (uc *TermUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.load(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *TermUseCase) load(ctx context.Context, companyID, id string) (*entity.Term, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener término: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return t, nil
}
