package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 有効な商品のみに絞る。全クエリで共通に使う。
func activeProducts(db *gorm.DB) *gorm.DB {
	return db.Where("products.is_active = ?", true)
}

// 検索/カテゴリ/在庫状態の絞り込み。件数とページ取得で同じ条件を使う。
func (r *ProductGormRepository) listScope(ctx context.Context, q repo.ProductListQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.Product{}).Scopes(activeProducts)

	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		tx = tx.Where(
			"products.name ILIKE ? OR products.name_km ILIKE ? OR products.sku ILIKE ?",
			like, like, like,
		)
	}

	if q.CategoryID != "" {
		tx = tx.Where("products.category_id = ?", q.CategoryID)
	}

	switch q.StockStatus {
	case "out_of_stock":
		tx = tx.Where("products.quantity_in_stock = 0")
	case "low_stock":
		tx = tx.Where("products.quantity_in_stock > 0 AND products.quantity_in_stock <= products.low_stock_threshold")
	case "in_stock":
		tx = tx.Where("products.quantity_in_stock > products.low_stock_threshold")
	}

	return tx
}

func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]repo.ProductRecord, int64, error) {
	var total int64
	if err := r.listScope(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []repo.ProductRecord
	offset := (q.Page - 1) * q.Limit
	err := r.listScope(ctx, q).
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Order("products.created_at DESC").
		Offset(offset).Limit(q.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (repo.ProductRecord, error) {
	var rec repo.ProductRecord
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Scopes(activeProducts).
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("products.id = ?", id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ProductRecord{}, repo.ErrNotFound
	}
	if err != nil {
		return repo.ProductRecord{}, err
	}
	return rec, nil
}

// 行ロック付きで現在値を読む。必ずトランザクション内で呼ぶこと。
// 同一商品への同時調整をここで直列化する。
func (r *ProductGormRepository) FindForUpdate(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(activeProducts).
		Where("products.id = ?", id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) SetQuantity(ctx context.Context, id string, quantity int64) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("quantity_in_stock", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// SKUの重複チェック（有効な商品のみ対象）
func (r *ProductGormRepository) ExistsActiveSKU(ctx context.Context, sku string, excludeID string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{}).
		Scopes(activeProducts).
		Where("products.sku = ?", sku)
	if excludeID != "" {
		tx = tx.Where("products.id <> ?", excludeID)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// Updateはカタログ項目だけを書く。
// quantity_in_stockには触れない。数量の書き込みは在庫調整（台帳）だけが行う。
// ここで読み取った数量を書き戻すと、読みと書きの間に確定した調整を巻き戻してしまう。
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) (model.Product, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND is_active = ?", p.ID, true).
		Updates(map[string]interface{}{
			"name":                p.Name,
			"name_km":             p.NameKm,
			"description":         p.Description,
			"category_id":         p.CategoryID,
			"image_url":           p.ImageURL,
			"cost_price":          p.CostPrice,
			"cost_currency":       p.CostCurrency,
			"selling_price":       p.SellingPrice,
			"selling_currency":    p.SellingCurrency,
			"low_stock_threshold": p.LowStockThreshold,
			"sku":                 p.SKU,
		})
	if res.Error != nil {
		return model.Product{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.Product{}, repo.ErrNotFound
	}

	var updated model.Product
	if err := r.db.WithContext(ctx).First(&updated, "id = ?", p.ID).Error; err != nil {
		return model.Product{}, err
	}
	return updated, nil
}

// 商品削除（論理削除）
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
