package usecase

import (
	"context"
	"math"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type DashboardUsecase struct {
	dashboard repo.DashboardRepository
	movements repo.StockMovementRepository
}

// DI
func NewDashboardUsecase(dashboard repo.DashboardRepository, movements repo.StockMovementRepository) *DashboardUsecase {
	return &DashboardUsecase{
		dashboard: dashboard,
		movements: movements,
	}
}

// 全roleに返す統計
type DashboardStats struct {
	TotalProducts     int64                       `json:"totalProducts"`
	TotalItemsInStock int64                       `json:"totalItemsInStock"`
	LowStockCount     int64                       `json:"lowStockCount"`
	OutOfStockCount   int64                       `json:"outOfStockCount"`
	CategoryBreakdown []repo.CategoryBreakdownRow `json:"categoryBreakdown"`
}

// adminにだけ返す統計（金額と利益を含む）
type AdminDashboardStats struct {
	DashboardStats
	TotalCostValue        float64                    `json:"totalCostValue"`
	TotalSellingValue     float64                    `json:"totalSellingValue"`
	PotentialProfit       float64                    `json:"potentialProfit"`
	LowStockProducts      []AdminLowStockView        `json:"lowStockProducts"`
	TopProfitableProducts []TopProfitableView        `json:"topProfitableProducts"`
	RecentStockMovements  []repo.StockMovementRecord `json:"recentStockMovements"`
}

type TopProfitableView struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	CostPrice        float64 `json:"cost_price"`
	SellingPrice     float64 `json:"selling_price"`
	ProfitPerUnit    float64 `json:"profit_per_unit"`
	ProfitPercentage float64 `json:"profit_percentage"`
}

func (u *DashboardUsecase) Stats(ctx context.Context, role model.Role) (interface{}, error) {
	totals, err := u.dashboard.StatsTotals(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	breakdown, err := u.dashboard.CategoryBreakdown(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	base := DashboardStats{
		TotalProducts:     totals.TotalProducts,
		TotalItemsInStock: totals.TotalItemsInStock,
		LowStockCount:     totals.LowStockCount,
		OutOfStockCount:   totals.OutOfStockCount,
		CategoryBreakdown: breakdown,
	}

	if role != model.RoleAdmin {
		return base, nil
	}

	values, err := u.dashboard.ValueTotals(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lowStock, err := u.dashboard.LowStockProducts(ctx, 5)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	lowStockViews := make([]AdminLowStockView, 0, len(lowStock))
	for _, row := range lowStock {
		lowStockViews = append(lowStockViews, NewAdminLowStockView(row))
	}

	profitable, err := u.dashboard.TopProfitable(ctx, 5)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	profitableViews := make([]TopProfitableView, 0, len(profitable))
	for _, row := range profitable {
		profitableViews = append(profitableViews, TopProfitableView{
			ID:               row.ID,
			Name:             row.Name,
			CostPrice:        row.CostPrice,
			SellingPrice:     row.SellingPrice,
			ProfitPerUnit:    row.SellingPrice - row.CostPrice,
			ProfitPercentage: profitPercentage(row.CostPrice, row.SellingPrice),
		})
	}

	recent, err := u.movements.ListRecent(ctx, 10)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return AdminDashboardStats{
		DashboardStats:        base,
		TotalCostValue:        values.TotalCostValue,
		TotalSellingValue:     values.TotalSellingValue,
		PotentialProfit:       values.PotentialProfit,
		LowStockProducts:      lowStockViews,
		TopProfitableProducts: profitableViews,
		RecentStockMovements:  recent,
	}, nil
}

// 在庫僅少一覧のstaff向けビュー
type StaffLowStockView struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	QuantityInStock   int64             `json:"quantity_in_stock"`
	LowStockThreshold int64             `json:"low_stock_threshold"`
	SKU               *string           `json:"sku"`
	SellingPrice      float64           `json:"selling_price"`
	ImageURL          *string           `json:"image_url"`
	CategoryName      *string           `json:"category_name"`
	StockStatus       model.StockStatus `json:"stockStatus"`
}

type AdminLowStockView struct {
	StaffLowStockView
	CostPrice float64 `json:"cost_price"`
}

func NewStaffLowStockView(row repo.LowStockRow) StaffLowStockView {
	status := model.StockStatusLow
	if row.QuantityInStock == 0 {
		status = model.StockStatusOut
	}
	return StaffLowStockView{
		ID:                row.ID,
		Name:              row.Name,
		QuantityInStock:   row.QuantityInStock,
		LowStockThreshold: row.LowStockThreshold,
		SKU:               row.SKU,
		SellingPrice:      row.SellingPrice,
		ImageURL:          row.ImageURL,
		CategoryName:      row.CategoryName,
		StockStatus:       status,
	}
}

func NewAdminLowStockView(row repo.LowStockRow) AdminLowStockView {
	return AdminLowStockView{
		StaffLowStockView: NewStaffLowStockView(row),
		CostPrice:         row.CostPrice,
	}
}

func (u *DashboardUsecase) LowStock(ctx context.Context, role model.Role) ([]interface{}, error) {
	rows, err := u.dashboard.LowStockProducts(ctx, 0)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		if role == model.RoleAdmin {
			views = append(views, NewAdminLowStockView(row))
		} else {
			views = append(views, NewStaffLowStockView(row))
		}
	}
	return views, nil
}

type ProfitCalcProduct struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	SKU                  *string `json:"sku"`
	CostPrice            float64 `json:"cost_price"`
	SellingPrice         float64 `json:"selling_price"`
	QuantityInStock      int64   `json:"quantity_in_stock"`
	ProfitPerUnit        float64 `json:"profit_per_unit"`
	TotalPotentialProfit float64 `json:"total_potential_profit"`
	ProfitPercentage     float64 `json:"profit_percentage"`
	CategoryName         *string `json:"category_name"`
}

type ProfitCalcSummary struct {
	TotalCostValue       float64 `json:"totalCostValue"`
	TotalSellingValue    float64 `json:"totalSellingValue"`
	TotalPotentialProfit float64 `json:"totalPotentialProfit"`
	OverallProfitMargin  float64 `json:"overallProfitMargin"`
}

type ProfitCalcOutput struct {
	Products []ProfitCalcProduct `json:"products"`
	Summary  ProfitCalcSummary   `json:"summary"`
}

// admin専用の利益一覧。
func (u *DashboardUsecase) ProfitCalculator(ctx context.Context) (ProfitCalcOutput, error) {
	rows, err := u.dashboard.ProfitRows(ctx)
	if err != nil {
		return ProfitCalcOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	products := make([]ProfitCalcProduct, 0, len(rows))
	var summary ProfitCalcSummary
	for _, row := range rows {
		ppu := row.SellingPrice - row.CostPrice
		total := float64(row.QuantityInStock) * ppu

		products = append(products, ProfitCalcProduct{
			ID:                   row.ID,
			Name:                 row.Name,
			SKU:                  row.SKU,
			CostPrice:            row.CostPrice,
			SellingPrice:         row.SellingPrice,
			QuantityInStock:      row.QuantityInStock,
			ProfitPerUnit:        ppu,
			TotalPotentialProfit: total,
			ProfitPercentage:     profitPercentage(row.CostPrice, row.SellingPrice),
			CategoryName:         row.CategoryName,
		})

		summary.TotalCostValue += row.CostPrice * float64(row.QuantityInStock)
		summary.TotalSellingValue += row.SellingPrice * float64(row.QuantityInStock)
		summary.TotalPotentialProfit += total
	}

	summary.OverallProfitMargin = 0
	if summary.TotalCostValue > 0 {
		summary.OverallProfitMargin = round2(summary.TotalPotentialProfit / summary.TotalCostValue * 100)
	}

	return ProfitCalcOutput{Products: products, Summary: summary}, nil
}

// 1個あたりの利益率（%）。原価0のときは0とする（ゼロ除算回避）。
func profitPercentage(cost float64, selling float64) float64 {
	if cost <= 0 {
		return 0
	}
	return round2((selling - cost) / cost * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
