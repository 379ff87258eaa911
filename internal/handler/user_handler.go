package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	uc *usecase.UserUsecase
}

// DI
func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// /api/users 配下は全部「JWT必須 + admin限定」
func (h *UserHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	g := e.Group("/api/users", auth, middleware.RequireRole(model.RoleAdmin))

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *UserHandler) list(c echo.Context) error {
	users, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return respondList(c, users, len(users))
}

func (h *UserHandler) get(c echo.Context) error {
	user, err := h.uc.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return respondData(c, http.StatusOK, user)
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

func (h *UserHandler) update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	actor := middleware.CurrentUser(c)
	user, err := h.uc.UpdateUser(c.Request().Context(), actor, c.Param("id"), usecase.UpdateUserInput{
		Name:     req.Name,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) delete(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if err := h.uc.DeactivateUser(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return respondMessage(c, http.StatusOK, "User deactivated successfully", nil)
}
