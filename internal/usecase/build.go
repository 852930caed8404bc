package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pcbuilder/storefront/internal/domain/model"
	"github.com/pcbuilder/storefront/internal/domain/repository"
)

// BuildUseCase manages the per-user build.
type BuildUseCase struct {
	builds repository.BuildRepository
	parts  repository.CatalogRepository
}

// NewBuildUseCase constructs BuildUseCase.
func NewBuildUseCase(builds repository.BuildRepository, parts repository.CatalogRepository) *BuildUseCase {
	return &BuildUseCase{builds: builds, parts: parts}
}

// GetBuild returns the user's build, creating an empty one on first use.
func (u *BuildUseCase) GetBuild(ctx context.Context, userID uuid.UUID) (*model.Build, error) {
	return u.builds.GetOrCreate(ctx, userID)
}

// AddPart places partID in its category slot, replacing any previous part.
func (u *BuildUseCase) AddPart(ctx context.Context, userID uuid.UUID, category model.PartCategory, partID uuid.UUID) (*model.Build, error) {
	if _, err := category.Info(); err != nil {
		return nil, err
	}
	if _, err := u.parts.Get(ctx, category, partID); err != nil {
		return nil, err
	}

	build, err := u.builds.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.builds.UpsertPart(ctx, build.ID, category, partID); err != nil {
		return nil, fmt.Errorf("store %s part: %w", category, err)
	}
	if build.Parts == nil {
		build.Parts = make(map[model.PartCategory]uuid.UUID)
	}
	build.Parts[category] = partID
	return build, nil
}

// RemovePart clears a category slot. Clearing an empty slot succeeds.
func (u *BuildUseCase) RemovePart(ctx context.Context, userID uuid.UUID, category model.PartCategory) (*model.Build, error) {
	if _, err := category.Info(); err != nil {
		return nil, err
	}
	build, err := u.builds.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.builds.RemovePart(ctx, build.ID, category); err != nil {
		return nil, fmt.Errorf("remove %s part: %w", category, err)
	}
	delete(build.Parts, category)
	return build, nil
}

// Summary resolves every selected part and prices the build.
func (u *BuildUseCase) Summary(ctx context.Context, userID uuid.UUID) (*model.BuildSummary, error) {
	build, err := u.builds.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &model.BuildSummary{BuildID: build.ID, Parts: []model.PartSummary{}, Total: decimal.Zero}
	for _, sel := range build.Selections() {
		part, err := u.parts.Get(ctx, sel.Category, sel.PartID)
		if err != nil {
			return nil, fmt.Errorf("resolve %s part %s: %w", sel.Category, sel.PartID, err)
		}
		summary.Parts = append(summary.Parts, part.PartSummary)
		summary.Total = summary.Total.Add(part.Price)
	}
	summary.MinorUnits = model.MinorUnits(summary.Total)
	return summary, nil
}
