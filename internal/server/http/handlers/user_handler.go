package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/server/http/dto"
)

// UserHandler manages administrative account endpoints.
type UserHandler struct {
	facade UserAdminFacade
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(facade UserAdminFacade) *UserHandler {
	return &UserHandler{facade: facade}
}

// List handles GET /api/admin/users.
func (h *UserHandler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	users, total, err := h.facade.Users(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.NewUserResponse(u))
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(items, total, page))
}

// Create handles POST /api/admin/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		respondError(c, validationError("unknown role %q", req.Role))
		return
	}
	user, err := h.facade.CreateUser(c.Request.Context(), req.Email, req.Password, req.FullName, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(*user))
}

// Update handles PATCH /api/admin/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req dto.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	patch := model.UserPatch{FullName: req.FullName, IsActive: req.IsActive}
	if req.Role != nil {
		role, ok := model.ParseRole(*req.Role)
		if !ok {
			respondError(c, validationError("unknown role %q", *req.Role))
			return
		}
		patch.Role = &role
	}
	user, err := h.facade.UpdateUser(c.Request.Context(), CurrentPrincipal(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(*user))
}
