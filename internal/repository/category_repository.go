package repository

import (
	"app/internal/domain/model"
	"context"
)

// カテゴリ＋有効な商品数
type CategoryRecord struct {
	model.Category
	ProductCount int64 `json:"product_count"`
}

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id string) (CategoryRecord, error)

	// 名前の重複チェック（大文字小文字を区別しない）
	ExistsName(ctx context.Context, name string, excludeID string) (bool, error)
	// このカテゴリを参照している有効な商品の数
	CountActiveProducts(ctx context.Context, id string) (int64, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) (model.Category, error)
	Delete(ctx context.Context, id string) error
}
