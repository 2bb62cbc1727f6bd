package repository

import (
	"context"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
)

// UserRepository is the persistence port for the owner account.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
