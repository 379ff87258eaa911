package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type DashboardGormRepository struct {
	db *gorm.DB
}

// DI
func NewDashboardGormRepository(db *gorm.DB) *DashboardGormRepository {
	return &DashboardGormRepository{db: db}
}

func (r *DashboardGormRepository) StatsTotals(ctx context.Context) (repo.StatsTotals, error) {
	var t repo.StatsTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total_products,
		       COALESCE(SUM(quantity_in_stock), 0) AS total_items_in_stock,
		       COUNT(*) FILTER (WHERE quantity_in_stock > 0 AND quantity_in_stock <= low_stock_threshold) AS low_stock_count,
		       COUNT(*) FILTER (WHERE quantity_in_stock = 0) AS out_of_stock_count
		FROM products
		WHERE is_active = true`).Scan(&t).Error
	if err != nil {
		return repo.StatsTotals{}, err
	}
	return t, nil
}

func (r *DashboardGormRepository) CategoryBreakdown(ctx context.Context) ([]repo.CategoryBreakdownRow, error) {
	var rows []repo.CategoryBreakdownRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id, c.name,
		       COUNT(p.id) AS product_count,
		       COALESCE(SUM(p.quantity_in_stock), 0) AS total_items
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id AND p.is_active = true
		GROUP BY c.id
		ORDER BY c.display_order ASC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DashboardGormRepository) ValueTotals(ctx context.Context) (repo.ValueTotals, error) {
	var t repo.ValueTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(quantity_in_stock * cost_price), 0) AS total_cost_value,
		       COALESCE(SUM(quantity_in_stock * selling_price), 0) AS total_selling_value,
		       COALESCE(SUM(quantity_in_stock * (selling_price - cost_price)), 0) AS potential_profit
		FROM products
		WHERE is_active = true`).Scan(&t).Error
	if err != nil {
		return repo.ValueTotals{}, err
	}
	return t, nil
}

func (r *DashboardGormRepository) LowStockProducts(ctx context.Context, limit int) ([]repo.LowStockRow, error) {
	tx := r.db.WithContext(ctx).Table("products p").
		Select(`p.id, p.name, p.quantity_in_stock, p.low_stock_threshold, p.sku,
			p.cost_price, p.selling_price, p.image_url, c.name AS category_name`).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("p.is_active = ? AND p.quantity_in_stock <= p.low_stock_threshold", true).
		Order("p.quantity_in_stock ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []repo.LowStockRow
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// 1個あたり利益の降順。在庫ゼロは除外する。
func (r *DashboardGormRepository) TopProfitable(ctx context.Context, limit int) ([]repo.ProfitRow, error) {
	var rows []repo.ProfitRow
	err := r.db.WithContext(ctx).Table("products p").
		Select(`p.id, p.name, p.sku, p.cost_price, p.selling_price, p.quantity_in_stock,
			c.name AS category_name`).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("p.is_active = ? AND p.quantity_in_stock > 0", true).
		Order("(p.selling_price - p.cost_price) DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// 利益見込み合計の降順
func (r *DashboardGormRepository) ProfitRows(ctx context.Context) ([]repo.ProfitRow, error) {
	var rows []repo.ProfitRow
	err := r.db.WithContext(ctx).Table("products p").
		Select(`p.id, p.name, p.sku, p.cost_price, p.selling_price, p.quantity_in_stock,
			c.name AS category_name`).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("p.is_active = ?", true).
		Order("(p.quantity_in_stock * (p.selling_price - p.cost_price)) DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
