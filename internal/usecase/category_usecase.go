package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
}

// DI
func NewCategoryUsecase(categories repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories}
}

func (u *CategoryUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categories.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

func (u *CategoryUsecase) GetCategory(ctx context.Context, id string) (repo.CategoryRecord, error) {
	rec, err := u.categories.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return repo.CategoryRecord{}, NewHTTPError(http.StatusNotFound, "Category not found")
	}
	if err != nil {
		return repo.CategoryRecord{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rec, nil
}

type CategoryInput struct {
	Name         string
	Description  string
	Icon         string
	DisplayOrder int
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, in CategoryInput) (model.Category, error) {
	if err := validateCategoryInput(in); err != nil {
		return model.Category{}, err
	}

	exists, err := u.categories.ExistsName(ctx, strings.TrimSpace(in.Name), "")
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return model.Category{}, NewHTTPError(http.StatusConflict, "Category with this name already exists")
	}

	created, err := u.categories.Create(ctx, model.Category{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Icon:         in.Icon,
		DisplayOrder: in.DisplayOrder,
	})
	//事前チェックと挿入の間に同名が入った場合も409に揃える
	if err == repo.ErrDuplicate {
		return model.Category{}, NewHTTPError(http.StatusConflict, "Category with this name already exists")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *CategoryUsecase) UpdateCategory(ctx context.Context, id string, in CategoryInput) (model.Category, error) {
	if err := validateCategoryInput(in); err != nil {
		return model.Category{}, err
	}

	if _, err := u.categories.FindByID(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return model.Category{}, NewHTTPError(http.StatusNotFound, "Category not found")
		}
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//自分以外との名前重複
	exists, err := u.categories.ExistsName(ctx, strings.TrimSpace(in.Name), id)
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return model.Category{}, NewHTTPError(http.StatusConflict, "Category with this name already exists")
	}

	updated, err := u.categories.Update(ctx, model.Category{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Icon:         in.Icon,
		DisplayOrder: in.DisplayOrder,
	})
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "Category not found")
	}
	if err == repo.ErrDuplicate {
		return model.Category{}, NewHTTPError(http.StatusConflict, "Category with this name already exists")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return updated, nil
}

// 有効な商品から参照されているカテゴリは削除できない
func (u *CategoryUsecase) DeleteCategory(ctx context.Context, id string) error {
	if _, err := u.categories.FindByID(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "Category not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	count, err := u.categories.CountActiveProducts(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if count > 0 {
		return NewHTTPError(http.StatusConflict,
			fmt.Sprintf("Cannot delete category. It has %d active products.", count))
	}

	if err := u.categories.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "Category not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func validateCategoryInput(in CategoryInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "Category name is required")
	}
	if in.DisplayOrder < 0 {
		return NewHTTPError(http.StatusBadRequest, "Display order must be a positive integer")
	}
	return nil
}
