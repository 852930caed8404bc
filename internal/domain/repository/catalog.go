package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pcbuilder/storefront/internal/domain/model"
)

// CatalogRepository reads the read-only part catalogues.
type CatalogRepository interface {
	Count(ctx context.Context, category model.PartCategory, filter model.PartFilter) (int64, error)
	List(ctx context.Context, category model.PartCategory, filter model.PartFilter, limit, offset int) ([]model.PartSummary, error)
	Get(ctx context.Context, category model.PartCategory, id uuid.UUID) (*model.Part, error)
	Price(ctx context.Context, category model.PartCategory, id uuid.UUID) (decimal.Decimal, error)
	Manufacturers(ctx context.Context, category model.PartCategory) ([]string, error)
}
