package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type StockMovementGormRepository struct {
	db *gorm.DB
}

// DI
func NewStockMovementGormRepository(db *gorm.DB) *StockMovementGormRepository {
	return &StockMovementGormRepository{db: db}
}

// 台帳への追記。更新APIは意図的に用意しない。
func (r *StockMovementGormRepository) Create(ctx context.Context, m model.StockMovement) error {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	return nil
}

func (r *StockMovementGormRepository) ListByProduct(ctx context.Context, productID string) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// 直近の変動を商品名・担当者名付きで返す（ダッシュボード用）
func (r *StockMovementGormRepository) ListRecent(ctx context.Context, limit int) ([]repo.StockMovementRecord, error) {
	var records []repo.StockMovementRecord
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select("stock_movements.*, products.name AS product_name, users.name AS user_name").
		Joins("JOIN products ON products.id = stock_movements.product_id").
		Joins("LEFT JOIN users ON users.id = stock_movements.user_id").
		Order("stock_movements.created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
