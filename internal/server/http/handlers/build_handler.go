package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pcbuilder/storefront/internal/server/http/dto"
)

// BuildHandler edits the authenticated user's build.
type BuildHandler struct {
	facade BuildFacade
}

// NewBuildHandler constructs BuildHandler.
func NewBuildHandler(facade BuildFacade) *BuildHandler {
	return &BuildHandler{facade: facade}
}

// Get handles GET /api/user/build.
func (h *BuildHandler) Get(c *gin.Context) {
	summary, err := h.facade.Build(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Put handles PUT /api/user/build/:category.
func (h *BuildHandler) Put(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	var req dto.AddPartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PartID == uuid.Nil {
		badRequest(c, "partId is required")
		return
	}

	build, err := h.facade.AddPart(c.Request.Context(), CurrentUserID(c), category, req.PartID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBuildResponse(build))
}

// Delete handles DELETE /api/user/build/:category.
func (h *BuildHandler) Delete(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	build, err := h.facade.RemovePart(c.Request.Context(), CurrentUserID(c), category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBuildResponse(build))
}
