package repository

import (
	"context"

	"github.com/jhoicas/facturador-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// El email es único en todo el sistema: el login no conoce la empresa.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error)
}
