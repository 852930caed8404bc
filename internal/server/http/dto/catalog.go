package dto

import "github.com/pcbuilder/storefront/internal/domain/model"

// PartListResponse is one page of a catalogue listing.
type PartListResponse struct {
	Items      []model.PartSummary `json:"items"`
	TotalCount int64               `json:"totalCount"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

// NewPartListResponse converts a page for the wire.
func NewPartListResponse(page *model.PartPage) PartListResponse {
	return PartListResponse{
		Items:      page.Items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(),
	}
}
