package dto

import (
	"github.com/google/uuid"

	"github.com/pcbuilder/storefront/internal/domain/model"
)

// AddPartRequest selects a part for a build slot.
type AddPartRequest struct {
	PartID uuid.UUID `json:"partId"`
}

// BuildResponse lists the part selected per category.
type BuildResponse struct {
	ID    uuid.UUID                        `json:"id"`
	Parts map[model.PartCategory]uuid.UUID `json:"parts"`
}

// NewBuildResponse converts a build for the wire.
func NewBuildResponse(b *model.Build) BuildResponse {
	parts := b.Parts
	if parts == nil {
		parts = map[model.PartCategory]uuid.UUID{}
	}
	return BuildResponse{ID: b.ID, Parts: parts}
}
