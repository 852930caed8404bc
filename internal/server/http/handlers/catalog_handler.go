package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pcbuilder/storefront/internal/domain/model"
	"github.com/pcbuilder/storefront/internal/server/http/dto"
)

// CatalogHandler serves the read-only part catalogues.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// Categories handles GET /api/catalog.
func (h *CatalogHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.facade.Categories())
}

// List handles GET /api/catalog/:category.
func (h *CatalogHandler) List(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	page, err := intQuery(c, "page")
	if err != nil {
		badRequest(c, "invalid page")
		return
	}
	pageSize, err := intQuery(c, "pageSize")
	if err != nil {
		badRequest(c, "invalid pageSize")
		return
	}

	filter := model.PartFilter{
		NameContains: strings.TrimSpace(c.Query("name")),
		Manufacturer: strings.TrimSpace(c.Query("manufacturer")),
	}
	for _, raw := range c.QueryArray("price") {
		r, err := model.ParsePriceRange(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.PriceRanges = append(filter.PriceRanges, r)
	}

	result, err := h.facade.ListParts(c.Request.Context(), category, page, pageSize, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPartListResponse(result))
}

// Get handles GET /api/catalog/:category/:id.
func (h *CatalogHandler) Get(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	part, err := h.facade.Part(c.Request.Context(), category, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

// Manufacturers handles GET /api/catalog/:category/manufacturers.
func (h *CatalogHandler) Manufacturers(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	list, err := h.facade.Manufacturers(c.Request.Context(), category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
