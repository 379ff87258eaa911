package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProductUsecase struct {
	products repo.ProductRepository
}

// DI
func NewProductUsecase(products repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{products: products}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page        int
	Limit       int
	Search      string
	CategoryID  string
	StockStatus string
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

type ProductListOutput struct {
	Items      []interface{}
	Pagination Pagination
}

func (u *ProductUsecase) ListProducts(ctx context.Context, role model.Role, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	switch in.StockStatus {
	case "", "all", "in_stock", "low_stock", "out_of_stock":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid stockStatus")
	}

	records, total, err := u.products.List(ctx, repo.ProductListQuery{
		Page:        in.Page,
		Limit:       in.Limit,
		Search:      strings.TrimSpace(in.Search),
		CategoryID:  in.CategoryID,
		StockStatus: in.StockStatus,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]interface{}, 0, len(records))
	for _, rec := range records {
		items = append(items, ProductViewFor(role, rec))
	}

	totalPages := int((total + int64(in.Limit) - 1) / int64(in.Limit))

	return ProductListOutput{
		Items: items,
		Pagination: Pagination{
			CurrentPage:  in.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: in.Limit,
			HasNextPage:  in.Page < totalPages,
			HasPrevPage:  in.Page > 1,
		},
	}, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, role model.Role, id string) (interface{}, error) {
	rec, err := u.products.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ProductViewFor(role, rec), nil
}

type ProductInput struct {
	Name              string
	NameKm            string
	Description       string
	CategoryID        *string
	CostPrice         float64
	CostCurrency      string
	SellingPrice      float64
	SellingCurrency   string
	QuantityInStock   *int64
	LowStockThreshold *int64
	SKU               *string
	// アップロード済み画像のURL。nilなら既存の画像を保持する。
	ImageURL *string
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := validateProductInput(&in); err != nil {
		return model.Product{}, err
	}

	if in.SKU != nil && *in.SKU != "" {
		exists, err := u.products.ExistsActiveSKU(ctx, *in.SKU, "")
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if exists {
			return model.Product{}, NewHTTPError(http.StatusConflict, "SKU already exists")
		}
	}

	quantity := int64(0)
	if in.QuantityInStock != nil {
		quantity = *in.QuantityInStock
	}
	threshold := int64(5)
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}

	created, err := u.products.Create(ctx, model.Product{
		Name:              strings.TrimSpace(in.Name),
		NameKm:            in.NameKm,
		Description:       in.Description,
		CategoryID:        in.CategoryID,
		ImageURL:          in.ImageURL,
		CostPrice:         in.CostPrice,
		CostCurrency:      in.CostCurrency,
		SellingPrice:      in.SellingPrice,
		SellingCurrency:   in.SellingCurrency,
		QuantityInStock:   quantity,
		LowStockThreshold: threshold,
		SKU:               in.SKU,
		IsActive:          true,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// 更新。数量はここでは変更しない（数量の変更は必ず在庫調整を通す）。
func (u *ProductUsecase) UpdateProduct(ctx context.Context, id string, in ProductInput) (model.Product, error) {
	if err := validateProductInput(&in); err != nil {
		return model.Product{}, err
	}

	existing, err := u.products.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.SKU != nil && *in.SKU != "" {
		exists, err := u.products.ExistsActiveSKU(ctx, *in.SKU, id)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if exists {
			return model.Product{}, NewHTTPError(http.StatusConflict, "SKU already exists")
		}
	}

	imageURL := existing.ImageURL
	if in.ImageURL != nil {
		imageURL = in.ImageURL
	}

	threshold := int64(5)
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}

	//数量は渡さない。repo側も書かないので、並行する在庫調整と競合しない。
	updated, err := u.products.Update(ctx, model.Product{
		ID:                id,
		Name:              strings.TrimSpace(in.Name),
		NameKm:            in.NameKm,
		Description:       in.Description,
		CategoryID:        in.CategoryID,
		ImageURL:          imageURL,
		CostPrice:         in.CostPrice,
		CostCurrency:      in.CostCurrency,
		SellingPrice:      in.SellingPrice,
		SellingCurrency:   in.SellingCurrency,
		LowStockThreshold: threshold,
		SKU:               in.SKU,
	})
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return updated, nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, id string) error {
	err := u.products.SoftDelete(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func validateProductInput(in *ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "Product name is required")
	}
	if in.CostPrice < 0 {
		return NewHTTPError(http.StatusBadRequest, "Cost price must be a positive number")
	}
	if in.SellingPrice < 0 {
		return NewHTTPError(http.StatusBadRequest, "Selling price must be a positive number")
	}
	if in.QuantityInStock != nil && *in.QuantityInStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "Quantity must be a non-negative integer")
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return NewHTTPError(http.StatusBadRequest, "Threshold must be a non-negative integer")
	}

	if in.CostCurrency == "" {
		in.CostCurrency = "USD"
	}
	if in.SellingCurrency == "" {
		in.SellingCurrency = "USD"
	}
	if !validCurrency(in.CostCurrency) {
		return NewHTTPError(http.StatusBadRequest, "Invalid cost currency")
	}
	if !validCurrency(in.SellingCurrency) {
		return NewHTTPError(http.StatusBadRequest, "Invalid selling currency")
	}
	return nil
}

func validCurrency(c string) bool {
	return c == "USD" || c == "KHR"
}
