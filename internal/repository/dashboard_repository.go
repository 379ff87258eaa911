package repository

import "context"

type StatsTotals struct {
	TotalProducts     int64
	TotalItemsInStock int64
	LowStockCount     int64
	OutOfStockCount   int64
}

type CategoryBreakdownRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProductCount int64  `json:"product_count"`
	TotalItems   int64  `json:"total_items"`
}

type ValueTotals struct {
	TotalCostValue    float64
	TotalSellingValue float64
	PotentialProfit   float64
}

type LowStockRow struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	QuantityInStock   int64   `json:"quantity_in_stock"`
	LowStockThreshold int64   `json:"low_stock_threshold"`
	SKU               *string `json:"sku"`
	CostPrice         float64 `json:"cost_price"`
	SellingPrice      float64 `json:"selling_price"`
	ImageURL          *string `json:"image_url"`
	CategoryName      *string `json:"category_name"`
}

type ProfitRow struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	SKU             *string `json:"sku"`
	CostPrice       float64 `json:"cost_price"`
	SellingPrice    float64 `json:"selling_price"`
	QuantityInStock int64   `json:"quantity_in_stock"`
	CategoryName    *string `json:"category_name"`
}

// ダッシュボード用の集計。対象は有効な商品のみ。
type DashboardRepository interface {
	StatsTotals(ctx context.Context) (StatsTotals, error)
	CategoryBreakdown(ctx context.Context) ([]CategoryBreakdownRow, error)
	ValueTotals(ctx context.Context) (ValueTotals, error)
	// limit <= 0 のときは全件
	LowStockProducts(ctx context.Context, limit int) ([]LowStockRow, error)
	// profit_per_unit 降順。在庫ゼロは除外。
	TopProfitable(ctx context.Context, limit int) ([]ProfitRow, error)
	// total_potential_profit 降順。
	ProfitRows(ctx context.Context) ([]ProfitRow, error)
}
