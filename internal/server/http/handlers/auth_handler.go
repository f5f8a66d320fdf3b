package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/server/http/dto"
	"github.com/fotovariedades/storefront/internal/server/http/middleware"
)

const tokenType = "bearer"

// AuthHandler processes registration, login and account self-service.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	user, token, err := h.facade.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeToken(c, http.StatusCreated, user, token)
}

// Token handles POST /api/auth/token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeToken(c, http.StatusOK, user, token)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.facade.CurrentUser(c.Request.Context(), CurrentPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(*user))
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := h.facade.RefreshToken(c.Request.Context(), CurrentPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.SetAuthCookie(c, token, h.maxAge())
	c.JSON(http.StatusOK, h.tokenResponse(token))
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if err := h.facade.ChangePassword(c.Request.Context(), CurrentPrincipal(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) writeToken(c *gin.Context, status int, user *model.User, token string) {
	middleware.SetAuthCookie(c, token, h.maxAge())
	c.JSON(status, dto.AuthResponse{TokenResponse: h.tokenResponse(token), User: dto.NewUserResponse(*user)})
}

func (h *AuthHandler) tokenResponse(token string) dto.TokenResponse {
	return dto.TokenResponse{AccessToken: token, TokenType: tokenType, ExpiresIn: int64(h.facade.TokenTTL().Seconds())}
}

func (h *AuthHandler) maxAge() int {
	return int(h.facade.TokenTTL().Seconds())
}
