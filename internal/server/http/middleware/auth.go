package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	pkgAuth "github.com/fotovariedades/storefront/internal/pkg/auth"
)

const (
	// PrincipalContextKey is a gin context key for the authenticated principal.
	PrincipalContextKey = "principal"
	authCookieName      = "storefront_token"
)

// Authorizer resolves an access token into the current principal.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (model.Principal, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(auth Authorizer, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		principal, err := auth.Authorize(c.Request.Context(), token)
		if err != nil {
			if isAuthFailure(err) {
				abort(c, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			logger.Error("authorization failed", slog.String("error", err.Error()))
			abort(c, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// OptionalAuth resolves the principal when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(auth Authorizer, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}
		principal, err := auth.Authorize(c.Request.Context(), token)
		if err != nil {
			if isAuthFailure(err) {
				c.Next()
				return
			}
			logger.Error("authorization failed", slog.String("error", err.Error()))
			abort(c, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// RequirePermission rejects principals whose role does not grant perm.
// It must run after AuthRequired.
func RequirePermission(perm model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if !principal.Can(perm) {
			abort(c, http.StatusForbidden, "forbidden", "insufficient permissions")
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the principal stored by the auth middleware.
func CurrentPrincipal(c *gin.Context) (model.Principal, bool) {
	val, ok := c.Get(PrincipalContextKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := val.(model.Principal)
	return principal, ok
}

func isAuthFailure(err error) bool {
	return errors.Is(err, pkgAuth.ErrInvalidToken) || errors.Is(err, domainErrors.ErrInactiveUser)
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(authCookieName, token, maxAge, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
