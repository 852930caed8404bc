package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Build is a user's selection with at most one part per category.
type Build struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Parts     map[PartCategory]uuid.UUID
	CreatedAt time.Time
}

// Empty reports whether no category is populated.
func (b *Build) Empty() bool {
	return b == nil || len(b.Parts) == 0
}

// Selections lists populated categories in catalogue order.
func (b *Build) Selections() []BuildSelection {
	if b.Empty() {
		return nil
	}
	out := make([]BuildSelection, 0, len(b.Parts))
	for _, c := range AllCategories() {
		if id, ok := b.Parts[c]; ok {
			out = append(out, BuildSelection{Category: c, PartID: id})
		}
	}
	return out
}

// BuildSelection is one populated build slot.
type BuildSelection struct {
	Category PartCategory `json:"category"`
	PartID   uuid.UUID    `json:"partId"`
}

// BuildSummary resolves every selected part and prices the build.
type BuildSummary struct {
	BuildID    uuid.UUID       `json:"buildId"`
	Parts      []PartSummary   `json:"parts"`
	Total      decimal.Decimal `json:"total"`
	MinorUnits int64           `json:"minorUnits"`
}

// MinorUnits expresses an amount in the gateway's minor currency unit.
func MinorUnits(total decimal.Decimal) int64 {
	return total.Shift(2).Round(0).IntPart()
}
