package repository

import (
	"app/internal/domain/model"
	"context"
)

// 履歴＋表示名（ダッシュボード用）
type StockMovementRecord struct {
	model.StockMovement
	ProductName string  `json:"product_name"`
	UserName    *string `json:"user_name"`
}

// 台帳への追記と参照。更新・削除は提供しない。
type StockMovementRepository interface {
	Create(ctx context.Context, m model.StockMovement) error
	ListByProduct(ctx context.Context, productID string) ([]model.StockMovement, error)
	ListRecent(ctx context.Context, limit int) ([]StockMovementRecord, error)
}
