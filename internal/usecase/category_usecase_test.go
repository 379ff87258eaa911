package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateCategory_NameRequired(t *testing.T) {
	uc := usecase.NewCategoryUsecase(new(CategoryRepoMock))

	_, err := uc.CreateCategory(context.Background(), usecase.CategoryInput{Name: " "})
	assertHTTPError(t, err, 400, "Category name is required")
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	categories.On("ExistsName", mock.Anything, "Drinks", "").Return(true, nil)

	_, err := uc.CreateCategory(context.Background(), usecase.CategoryInput{Name: "Drinks"})
	assertHTTPError(t, err, 409, "Category with this name already exists")
}

// 事前チェックをすり抜けた同時作成はDBの一意制約で弾かれ、409になる
func TestCreateCategory_DuplicateRaceMapsToConflict(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	categories.On("ExistsName", mock.Anything, "Drinks", "").Return(false, nil)
	categories.On("Create", mock.Anything, mock.Anything).Return(model.Category{}, repo.ErrDuplicate)

	_, err := uc.CreateCategory(context.Background(), usecase.CategoryInput{Name: "Drinks"})
	assertHTTPError(t, err, 409, "Category with this name already exists")
}

func TestUpdateCategory_DuplicateNameExcludesSelf(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	categories.On("FindByID", mock.Anything, "c1").
		Return(repo.CategoryRecord{Category: model.Category{ID: "c1"}}, nil)
	categories.On("ExistsName", mock.Anything, "Drinks", "c1").Return(false, nil)
	categories.On("Update", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.ID == "c1" && c.Name == "Drinks"
	})).Return(model.Category{ID: "c1", Name: "Drinks"}, nil)

	updated, err := uc.UpdateCategory(context.Background(), "c1", usecase.CategoryInput{Name: "Drinks"})
	assert.NoError(t, err)
	assert.Equal(t, "Drinks", updated.Name)

	categories.AssertExpectations(t)
}

// 有効な商品が残っているカテゴリは消せない
func TestDeleteCategory_BlockedByActiveProducts(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	categories.On("FindByID", mock.Anything, "c1").
		Return(repo.CategoryRecord{Category: model.Category{ID: "c1"}}, nil)
	categories.On("CountActiveProducts", mock.Anything, "c1").Return(int64(3), nil)

	err := uc.DeleteCategory(context.Background(), "c1")
	assertHTTPError(t, err, 409, "Cannot delete category. It has 3 active products.")

	categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteCategory_Success(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	categories.On("FindByID", mock.Anything, "c1").
		Return(repo.CategoryRecord{Category: model.Category{ID: "c1"}}, nil)
	categories.On("CountActiveProducts", mock.Anything, "c1").Return(int64(0), nil)
	categories.On("Delete", mock.Anything, "c1").Return(nil)

	err := uc.DeleteCategory(context.Background(), "c1")
	assert.NoError(t, err)

	categories.AssertExpectations(t)
}

func TestGetCategory_NotFound(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	categories.On("FindByID", mock.Anything, "missing").Return(repo.CategoryRecord{}, repo.ErrNotFound)

	_, err := uc.GetCategory(context.Background(), "missing")
	assertHTTPError(t, err, 404, "Category not found")
}
