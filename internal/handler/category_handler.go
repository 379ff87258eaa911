package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

// DI
func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// 参照は認証済みなら誰でも、変更はadminのみ
func (h *CategoryHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	g := e.Group("/api/categories", auth)
	admin := middleware.RequireRole(model.RoleAdmin)

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create, admin)
	g.PUT("/:id", h.update, admin)
	g.DELETE("/:id", h.delete, admin)
}

func (h *CategoryHandler) list(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return respondList(c, categories, len(categories))
}

func (h *CategoryHandler) get(c echo.Context) error {
	rec, err := h.uc.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return respondData(c, http.StatusOK, rec)
}

type categoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"displayOrder"`
}

func (h *CategoryHandler) create(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	created, err := h.uc.CreateCategory(c.Request().Context(), usecase.CategoryInput{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusCreated, "Category created successfully", created)
}

func (h *CategoryHandler) update(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	updated, err := h.uc.UpdateCategory(c.Request().Context(), c.Param("id"), usecase.CategoryInput{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "Category updated successfully", updated)
}

func (h *CategoryHandler) delete(c echo.Context) error {
	if err := h.uc.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return respondMessage(c, http.StatusOK, "Category deleted successfully", nil)
}
