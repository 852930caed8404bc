package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pcbuilder/storefront/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// ProfileRepository stores editable account details and roles.
type ProfileRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	Upsert(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
}
