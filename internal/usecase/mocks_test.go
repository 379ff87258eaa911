package usecase_test

import (
	"context"
	"strings"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	products  repo.ProductRepository
	movements repo.StockMovementRepository
}

func (r *TxReposMock) Products() repo.ProductRepository        { return r.products }
func (r *TxReposMock) Movements() repo.StockMovementRepository { return r.movements }

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]repo.ProductRecord, int64, error) {
	args := m.Called(ctx, q)
	records, _ := args.Get(0).([]repo.ProductRecord)
	return records, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (repo.ProductRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(repo.ProductRecord)
	return rec, args.Error(1)
}

func (m *ProductRepoMock) FindForUpdate(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) SetQuantity(ctx context.Context, id string, quantity int64) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *ProductRepoMock) ExistsActiveSKU(ctx context.Context, sku string, excludeID string) (bool, error) {
	args := m.Called(ctx, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	updated, _ := args.Get(0).(model.Product)
	return updated, args.Error(1)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MovementRepoMock struct{ mock.Mock }

func (m *MovementRepoMock) Create(ctx context.Context, movement model.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MovementRepoMock) ListByProduct(ctx context.Context, productID string) ([]model.StockMovement, error) {
	args := m.Called(ctx, productID)
	movements, _ := args.Get(0).([]model.StockMovement)
	return movements, args.Error(1)
}

func (m *MovementRepoMock) ListRecent(ctx context.Context, limit int) ([]repo.StockMovementRecord, error) {
	args := m.Called(ctx, limit)
	records, _ := args.Get(0).([]repo.StockMovementRecord)
	return records, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserRepoMock) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]model.Category)
	return categories, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id string) (repo.CategoryRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(repo.CategoryRecord)
	return rec, args.Error(1)
}

func (m *CategoryRepoMock) ExistsName(ctx context.Context, name string, excludeID string) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *CategoryRepoMock) CountActiveProducts(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Category)
	return created, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	updated, _ := args.Get(0).(model.Category)
	return updated, args.Error(1)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type DashboardRepoMock struct{ mock.Mock }

func (m *DashboardRepoMock) StatsTotals(ctx context.Context) (repo.StatsTotals, error) {
	args := m.Called(ctx)
	totals, _ := args.Get(0).(repo.StatsTotals)
	return totals, args.Error(1)
}

func (m *DashboardRepoMock) CategoryBreakdown(ctx context.Context) ([]repo.CategoryBreakdownRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]repo.CategoryBreakdownRow)
	return rows, args.Error(1)
}

func (m *DashboardRepoMock) ValueTotals(ctx context.Context) (repo.ValueTotals, error) {
	args := m.Called(ctx)
	totals, _ := args.Get(0).(repo.ValueTotals)
	return totals, args.Error(1)
}

func (m *DashboardRepoMock) LowStockProducts(ctx context.Context, limit int) ([]repo.LowStockRow, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]repo.LowStockRow)
	return rows, args.Error(1)
}

func (m *DashboardRepoMock) TopProfitable(ctx context.Context, limit int) ([]repo.ProfitRow, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]repo.ProfitRow)
	return rows, args.Error(1)
}

func (m *DashboardRepoMock) ProfitRows(ctx context.Context) ([]repo.ProfitRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]repo.ProfitRow)
	return rows, args.Error(1)
}

// =====================
// helpers
// =====================

func assertHTTPError(t *testing.T, err error, status int, contains string) {
	t.Helper()
	assert.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected *usecase.HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
		assert.True(t, strings.Contains(he.Message, contains),
			"message %q does not contain %q", he.Message, contains)
	}
}
