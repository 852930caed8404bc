package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pcbuilder/storefront/internal/domain/model"
)

// BuildRepository persists one build per user.
type BuildRepository interface {
	// GetOrCreate returns the user's build, creating it on first use.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Build, error)
	UpsertPart(ctx context.Context, buildID uuid.UUID, category model.PartCategory, partID uuid.UUID) error
	RemovePart(ctx context.Context, buildID uuid.UUID, category model.PartCategory) error
}
