package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"app/internal/domain/model"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 画像の保存先。ローカルディスク実装はinfra/blobにある。
type ImageStore interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type ProductHandler struct {
	uc     *usecase.ProductUsecase
	stock  *usecase.StockUsecase
	images ImageStore
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, stock *usecase.StockUsecase, images ImageStore) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		stock:  stock,
		images: images,
	}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	g := e.Group("/api/products", auth)
	admin := middleware.RequireRole(model.RoleAdmin)

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/movements", h.movements)

	//在庫調整はstaffも行う
	g.PATCH("/:id/stock", h.adjustStock, middleware.RequireRole(model.RoleAdmin, model.RoleStaff))

	g.POST("", h.create, admin)
	g.PUT("/:id", h.update, admin)
	g.DELETE("/:id", h.delete, admin)
}

func (h *ProductHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid page")
		}
		page = n
	}
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid limit")
		}
		limit = n
	}

	user := middleware.CurrentUser(c)
	out, err := h.uc.ListProducts(c.Request().Context(), user.Role, usecase.ListProductsInput{
		Page:        page,
		Limit:       limit,
		Search:      c.QueryParam("search"),
		CategoryID:  c.QueryParam("categoryId"),
		StockStatus: c.QueryParam("stockStatus"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       out.Items,
		Pagination: out.Pagination,
	})
}

func (h *ProductHandler) get(c echo.Context) error {
	user := middleware.CurrentUser(c)
	view, err := h.uc.GetProduct(c.Request().Context(), user.Role, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return respondData(c, http.StatusOK, view)
}

func (h *ProductHandler) movements(c echo.Context) error {
	movements, err := h.stock.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return respondList(c, movements, len(movements))
}

func (h *ProductHandler) create(c echo.Context) error {
	in, err := h.bindProductForm(c)
	if err != nil {
		return writeError(c, err)
	}

	created, err := h.uc.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	user := middleware.CurrentUser(c)
	view := usecase.ProductViewFor(user.Role, repo.ProductRecord{Product: created})
	return respondMessage(c, http.StatusCreated, "Product created successfully", view)
}

func (h *ProductHandler) update(c echo.Context) error {
	in, err := h.bindProductForm(c)
	if err != nil {
		return writeError(c, err)
	}

	updated, err := h.uc.UpdateProduct(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return writeError(c, err)
	}

	user := middleware.CurrentUser(c)
	view := usecase.ProductViewFor(user.Role, repo.ProductRecord{Product: updated})
	return respondMessage(c, http.StatusOK, "Product updated successfully", view)
}

func (h *ProductHandler) delete(c echo.Context) error {
	if err := h.uc.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return respondMessage(c, http.StatusOK, "Product deleted successfully", nil)
}

type adjustStockRequest struct {
	Quantity int64  `json:"quantity"`
	Type     string `json:"type"`
	Notes    string `json:"notes"`
}

func (h *ProductHandler) adjustStock(c echo.Context) error {
	var req adjustStockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user := middleware.CurrentUser(c)
	result, err := h.stock.AdjustStock(c.Request().Context(), user, c.Param("id"), usecase.AdjustStockInput{
		Quantity: req.Quantity,
		Type:     req.Type,
		Notes:    req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "Stock updated successfully", echo.Map{
		"previousQuantity": result.PreviousQuantity,
		"newQuantity":      result.NewQuantity,
		"product":          usecase.ProductViewFor(user.Role, repo.ProductRecord{Product: result.Product}),
	})
}

// multipartフォームからの入力を組み立てる。画像の保存失敗は致命にしない。
func (h *ProductHandler) bindProductForm(c echo.Context) (usecase.ProductInput, error) {
	in := usecase.ProductInput{
		Name:            c.FormValue("name"),
		NameKm:          c.FormValue("name_km"),
		Description:     c.FormValue("description"),
		CostCurrency:    c.FormValue("cost_currency"),
		SellingCurrency: c.FormValue("selling_currency"),
	}

	if v := c.FormValue("category_id"); v != "" {
		in.CategoryID = &v
	}
	if v := c.FormValue("sku"); v != "" {
		in.SKU = &v
	}

	var err error
	in.CostPrice, err = formFloat(c.FormValue("cost_price"))
	if err != nil {
		return in, usecase.NewHTTPError(http.StatusBadRequest, "Cost price must be a positive number")
	}
	in.SellingPrice, err = formFloat(c.FormValue("selling_price"))
	if err != nil {
		return in, usecase.NewHTTPError(http.StatusBadRequest, "Selling price must be a positive number")
	}
	in.QuantityInStock, err = formInt(c.FormValue("quantity_in_stock"))
	if err != nil {
		return in, usecase.NewHTTPError(http.StatusBadRequest, "Quantity must be a non-negative integer")
	}
	in.LowStockThreshold, err = formInt(c.FormValue("low_stock_threshold"))
	if err != nil {
		return in, usecase.NewHTTPError(http.StatusBadRequest, "Threshold must be a non-negative integer")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		//画像なし
		return in, nil
	}

	src, err := fh.Open()
	if err != nil {
		c.Logger().Warnf("image upload skipped: %v", err)
		return in, nil
	}
	defer src.Close()

	url, err := h.images.Upload(c.Request().Context(), fh.Filename, src)
	if err != nil {
		c.Logger().Warnf("image upload skipped: %v", err)
		return in, nil
	}
	in.ImageURL = &url
	return in, nil
}

func formFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func formInt(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
