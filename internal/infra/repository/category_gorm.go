package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

func (r *CategoryGormRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Order("display_order ASC").Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id string) (repo.CategoryRecord, error) {
	var c model.Category
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.CategoryRecord{}, repo.ErrNotFound
	}
	if err != nil {
		return repo.CategoryRecord{}, err
	}

	count, err := r.CountActiveProducts(ctx, id)
	if err != nil {
		return repo.CategoryRecord{}, err
	}

	return repo.CategoryRecord{Category: c, ProductCount: count}, nil
}

// 大文字小文字を区別せずに名前の重複を調べる
func (r *CategoryGormRepository) ExistsName(ctx context.Context, name string, excludeID string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CategoryGormRepository) CountActiveProducts(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CategoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		//ExistsNameのチェックをすり抜けた同時作成はここで弾かれる
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Category{}, repo.ErrDuplicate
		}
		return model.Category{}, err
	}
	return c, nil
}

func (r *CategoryGormRepository) Update(ctx context.Context, c model.Category) (model.Category, error) {
	res := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":          c.Name,
			"description":   c.Description,
			"icon":          c.Icon,
			"display_order": c.DisplayOrder,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return model.Category{}, repo.ErrDuplicate
		}
		return model.Category{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.Category{}, repo.ErrNotFound
	}

	var updated model.Category
	if err := r.db.WithContext(ctx).First(&updated, "id = ?", c.ID).Error; err != nil {
		return model.Category{}, err
	}
	return updated, nil
}

func (r *CategoryGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
