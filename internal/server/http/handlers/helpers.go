package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
	"github.com/pcbuilder/storefront/internal/domain/model"
	"github.com/pcbuilder/storefront/internal/server/http/dto"
	"github.com/pcbuilder/storefront/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) uuid.UUID {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := val.(uuid.UUID)
	return id
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var creationErr *domainErrors.CreationError
	switch {
	case errors.Is(err, domainErrors.ErrUnknownCategory), errors.Is(err, domainErrors.ErrNotFound),
		errors.Is(err, domainErrors.ErrBuilderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrEmptyBuild):
		return http.StatusUnprocessableEntity
	case errors.As(err, &creationErr), errors.Is(err, domainErrors.ErrPaymentInitiation),
		errors.Is(err, domainErrors.ErrRefundRejected):
		return http.StatusBadGateway
	case errors.Is(err, domainErrors.ErrGatewayUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domainErrors.ErrAmountMismatch), errors.Is(err, domainErrors.ErrInvalidStatusTransition),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidInput), errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body. Internal errors are not echoed.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	resp := dto.ErrorResponse{Error: err.Error()}
	switch {
	case status == http.StatusInternalServerError:
		resp.Error = http.StatusText(status)
	case errors.Is(err, domainErrors.ErrGatewayUnavailable):
		resp.Error = domainErrors.ErrGatewayUnavailable.Error()
	}

	var creationErr *domainErrors.CreationError
	if errors.As(err, &creationErr) && creationErr.Retryable() {
		id := creationErr.OrderID
		resp.OrderID = &id
		resp.Items = creationErr.Items
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

func categoryParam(c *gin.Context) (model.PartCategory, bool) {
	category, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return category, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
