package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	pkgAuth "github.com/fotovariedades/storefront/internal/pkg/auth"
	"github.com/fotovariedades/storefront/internal/server/http/dto"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrValidation, http.StatusBadRequest, "validation_error"},
	{domainErrors.ErrInvalidSignature, http.StatusUnauthorized, "invalid_signature"},
	{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
	{domainErrors.ErrInactiveUser, http.StatusUnauthorized, "unauthorized"},
	{pkgAuth.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
	{domainErrors.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domainErrors.ErrNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{domainErrors.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{domainErrors.ErrInvalidStateTransition, http.StatusConflict, "invalid_state"},
	{domainErrors.ErrAlreadyExists, http.StatusConflict, "conflict"},
	{domainErrors.ErrGatewayUnavailable, http.StatusBadGateway, "gateway_unavailable"},
}

// retryDelayer is implemented by upstream errors that carry a back-off hint.
type retryDelayer interface {
	RetryDelay() time.Duration
}

// respondError writes the JSON error body matching err. Unclassified errors
// become 500 with a generic message and are attached to the context for the
// request logger.
func respondError(c *gin.Context, err error) {
	var retry retryDelayer
	if errors.As(err, &retry) {
		seconds := int(math.Ceil(retry.RetryDelay().Seconds()))
		c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.AbortWithStatusJSON(m.status, dto.ErrorResponse{Error: m.code, Message: err.Error()})
			return
		}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", Message: "internal server error"})
}
