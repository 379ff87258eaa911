package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	uc *usecase.DashboardUsecase
}

// DI
func NewDashboardHandler(uc *usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	g := e.Group("/api/dashboard", auth)

	g.GET("/stats", h.stats)
	g.GET("/low-stock", h.lowStock)

	//利益一覧は原価を含むのでadminのみ
	g.GET("/profit-calculator", h.profitCalculator, middleware.RequireRole(model.RoleAdmin))
}

func (h *DashboardHandler) stats(c echo.Context) error {
	user := middleware.CurrentUser(c)
	stats, err := h.uc.Stats(c.Request().Context(), user.Role)
	if err != nil {
		return writeError(c, err)
	}
	return respondData(c, http.StatusOK, stats)
}

func (h *DashboardHandler) lowStock(c echo.Context) error {
	user := middleware.CurrentUser(c)
	views, err := h.uc.LowStock(c.Request().Context(), user.Role)
	if err != nil {
		return writeError(c, err)
	}
	return respondList(c, views, len(views))
}

func (h *DashboardHandler) profitCalculator(c echo.Context) error {
	out, err := h.uc.ProfitCalculator(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return respondData(c, http.StatusOK, out)
}
