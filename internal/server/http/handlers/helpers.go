package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/server/http/middleware"
)

const dateLayout = "2006-01-02"

// CurrentPrincipal returns the authenticated caller. Routes using it sit behind AuthRequired.
func CurrentPrincipal(c *gin.Context) model.Principal {
	principal, _ := middleware.CurrentPrincipal(c)
	return principal
}

func optionalPrincipal(c *gin.Context) *model.Principal {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return nil
	}
	return &principal
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domainErrors.ErrValidation}, args...)...)
}

func parsePage(c *gin.Context) (model.Page, error) {
	number, err := queryInt(c, "page")
	if err != nil {
		return model.Page{}, err
	}
	size, err := queryInt(c, "page_size")
	if err != nil {
		return model.Page{}, err
	}
	return model.Page{Number: number, Size: size}.Normalize(), nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validationError("%s must be an integer", key)
	}
	return v, nil
}

func queryInt64(c *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, validationError("%s must be an integer", key)
	}
	return &v, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, validationError("%s must be a boolean", key)
	}
	return &v, nil
}

// queryTime accepts RFC 3339 timestamps and plain dates. A plain date_to covers the whole day.
func queryTime(c *gin.Context, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, validationError("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", key)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func paramID(c *gin.Context, key string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, validationError("invalid %s", key)
	}
	return id, nil
}

func paramUUID(c *gin.Context, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(key))
	if err != nil {
		return uuid.Nil, validationError("invalid %s", key)
	}
	return id, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return validationError("invalid request body: %v", err)
	}
	return nil
}
