package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	// DBの一意制約に弾かれたとき（事前チェックをすり抜けた同時書き込み）
	ErrDuplicate = errors.New("duplicate")
)

// 一覧検索
type ProductListQuery struct {
	Page        int
	Limit       int
	Search      string
	CategoryID  string
	StockStatus string // all / in_stock / low_stock / out_of_stock
}

// カテゴリ名を付けた取得結果
type ProductRecord struct {
	model.Product
	CategoryName *string `json:"category_name"`
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]ProductRecord, int64, error)
	FindByID(ctx context.Context, id string) (ProductRecord, error)

	// 在庫調整トランザクション内でのみ使う。行ロック付きで現在値を読む。
	FindForUpdate(ctx context.Context, id string) (model.Product, error)
	SetQuantity(ctx context.Context, id string, quantity int64) error

	ExistsActiveSKU(ctx context.Context, sku string, excludeID string) (bool, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	// Updateはカタログ項目のみ。quantity_in_stockは書かない（SetQuantity経由のみ）。
	Update(ctx context.Context, p model.Product) (model.Product, error)
	SoftDelete(ctx context.Context, id string) error
}
