package usecase

import (
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// staff向けの商品ビュー。原価系のフィールドを持たない。
// 実行時にキーを削るのではなく、出力の形そのものをroleごとに分ける。
type StaffProductView struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	NameKm            string            `json:"name_km"`
	Description       string            `json:"description"`
	CategoryID        *string           `json:"category_id"`
	CategoryName      *string           `json:"category_name"`
	ImageURL          *string           `json:"image_url"`
	SellingPrice      float64           `json:"selling_price"`
	SellingCurrency   string            `json:"selling_currency"`
	QuantityInStock   int64             `json:"quantity_in_stock"`
	LowStockThreshold int64             `json:"low_stock_threshold"`
	SKU               *string           `json:"sku"`
	StockStatus       model.StockStatus `json:"stockStatus"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// admin向けの商品ビュー。原価と利幅を含む。
type AdminProductView struct {
	StaffProductView
	CostPrice    float64 `json:"cost_price"`
	CostCurrency string  `json:"cost_currency"`
	ProfitMargin float64 `json:"profit_margin"`
}

func NewStaffProductView(rec repo.ProductRecord) StaffProductView {
	return StaffProductView{
		ID:                rec.ID,
		Name:              rec.Name,
		NameKm:            rec.NameKm,
		Description:       rec.Description,
		CategoryID:        rec.CategoryID,
		CategoryName:      rec.CategoryName,
		ImageURL:          rec.ImageURL,
		SellingPrice:      rec.SellingPrice,
		SellingCurrency:   rec.SellingCurrency,
		QuantityInStock:   rec.QuantityInStock,
		LowStockThreshold: rec.LowStockThreshold,
		SKU:               rec.SKU,
		StockStatus:       rec.Product.StockStatus(),
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}

func NewAdminProductView(rec repo.ProductRecord) AdminProductView {
	return AdminProductView{
		StaffProductView: NewStaffProductView(rec),
		CostPrice:        rec.CostPrice,
		CostCurrency:     rec.CostCurrency,
		ProfitMargin:     rec.SellingPrice - rec.CostPrice,
	}
}

// roleから出力の形を選ぶ。分岐はここに集約する。
func ProductViewFor(role model.Role, rec repo.ProductRecord) interface{} {
	if role == model.RoleAdmin {
		return NewAdminProductView(rec)
	}
	return NewStaffProductView(rec)
}
