package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcbuilder/storefront/internal/config"
	"github.com/pcbuilder/storefront/internal/domain/model"
	"github.com/pcbuilder/storefront/internal/domain/repository"
)

// CatalogUseCase serves read-only part catalogues.
type CatalogUseCase struct {
	parts    repository.CatalogRepository
	pageSize int
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(parts repository.CatalogRepository, cfg *config.Config) *CatalogUseCase {
	pageSize := model.DefaultPageSize
	if cfg != nil && cfg.CatalogPageSize > 0 {
		pageSize = cfg.CatalogPageSize
	}
	return &CatalogUseCase{parts: parts, pageSize: pageSize}
}

// Categories lists the category descriptors in catalogue order.
func (u *CatalogUseCase) Categories() []model.CategoryInfo {
	return model.Categories()
}

// ListParts returns one page of category parts. The total is counted
// separately from the page read.
func (u *CatalogUseCase) ListParts(ctx context.Context, category model.PartCategory, page, pageSize int, filter model.PartFilter) (*model.PartPage, error) {
	if _, err := category.Info(); err != nil {
		return nil, err
	}
	page, pageSize = model.NormalizePage(page, pageSize, u.pageSize)
	offset, err := model.PageOffset(page, pageSize)
	if err != nil {
		return nil, err
	}

	total, err := u.parts.Count(ctx, category, filter)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", category, err)
	}
	items, err := u.parts.List(ctx, category, filter, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", category, err)
	}
	if items == nil {
		items = []model.PartSummary{}
	}

	return &model.PartPage{Items: items, TotalCount: total, Page: page, PageSize: pageSize}, nil
}

// GetPart returns the part with its category specs.
func (u *CatalogUseCase) GetPart(ctx context.Context, category model.PartCategory, id uuid.UUID) (*model.Part, error) {
	if _, err := category.Info(); err != nil {
		return nil, err
	}
	return u.parts.Get(ctx, category, id)
}

// Manufacturers lists the distinct manufacturers of a category.
func (u *CatalogUseCase) Manufacturers(ctx context.Context, category model.PartCategory) ([]string, error) {
	if _, err := category.Info(); err != nil {
		return nil, err
	}
	list, err := u.parts.Manufacturers(ctx, category)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}
