package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PaymentHandler reports gateway results to the user.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Return handles GET /api/user/payments/return with the gateway's redirect
// parameters forwarded as the query string.
func (h *PaymentHandler) Return(c *gin.Context) {
	result, err := h.facade.ReconcileReturn(c.Request.Context(), CurrentUserID(c), c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Latest handles GET /api/user/payments/latest.
func (h *PaymentHandler) Latest(c *gin.Context) {
	result, err := h.facade.LatestPayment(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
