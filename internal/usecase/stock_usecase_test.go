package usecase_test

import (
	"context"
	"sync"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newStockFixture() (*TxManagerMock, *ProductRepoMock, *MovementRepoMock, *usecase.StockUsecase) {
	tx := new(TxManagerMock)
	products := new(ProductRepoMock)
	movements := new(MovementRepoMock)
	tx.Repos = &TxReposMock{products: products, movements: movements}

	uc := usecase.NewStockUsecase(tx, products, movements)
	return tx, products, movements, uc
}

func TestAdjustStock_InvalidType(t *testing.T) {
	_, _, _, uc := newStockFixture()

	_, err := uc.AdjustStock(context.Background(), nil, "p1", usecase.AdjustStockInput{
		Quantity: 1,
		Type:     "increment",
	})
	assertHTTPError(t, err, 400, "Type must be set, add, or subtract")
}

func TestAdjustStock_NegativeQuantity(t *testing.T) {
	_, _, _, uc := newStockFixture()

	_, err := uc.AdjustStock(context.Background(), nil, "p1", usecase.AdjustStockInput{
		Quantity: -1,
		Type:     "add",
	})
	assertHTTPError(t, err, 400, "Quantity must be a non-negative integer")
}

func TestAdjustStock_ProductNotFound(t *testing.T) {
	tx, products, _, uc := newStockFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	products.On("FindForUpdate", mock.Anything, "missing").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AdjustStock(context.Background(), nil, "missing", usecase.AdjustStockInput{
		Quantity: 1,
		Type:     "add",
	})
	assertHTTPError(t, err, 404, "Product not found")
}

func TestAdjustStock_Add(t *testing.T) {
	tx, products, movements, uc := newStockFixture()

	actor := &model.User{ID: "u1", Role: model.RoleStaff}
	tx.On("WithinTx", mock.Anything).Return(nil)
	products.On("FindForUpdate", mock.Anything, "p1").Return(model.Product{ID: "p1", QuantityInStock: 10}, nil)
	products.On("SetQuantity", mock.Anything, "p1", int64(15)).Return(nil)
	movements.On("Create", mock.Anything, mock.MatchedBy(func(m model.StockMovement) bool {
		return m.ProductID == "p1" &&
			m.ChangeType == model.ChangeTypeAddition &&
			m.QuantityChange == 5 &&
			m.PreviousQuantity == 10 &&
			m.NewQuantity == 15 &&
			m.UserID != nil && *m.UserID == "u1"
	})).Return(nil)

	result, err := uc.AdjustStock(context.Background(), actor, "p1", usecase.AdjustStockInput{
		Quantity: 5,
		Type:     "add",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), result.PreviousQuantity)
	assert.Equal(t, int64(15), result.NewQuantity)
	assert.Equal(t, int64(15), result.Product.QuantityInStock)

	products.AssertExpectations(t)
	movements.AssertExpectations(t)
}

func TestAdjustStock_Subtract(t *testing.T) {
	tx, products, movements, uc := newStockFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	products.On("FindForUpdate", mock.Anything, "p1").Return(model.Product{ID: "p1", QuantityInStock: 10}, nil)
	products.On("SetQuantity", mock.Anything, "p1", int64(7)).Return(nil)
	movements.On("Create", mock.Anything, mock.MatchedBy(func(m model.StockMovement) bool {
		return m.ChangeType == model.ChangeTypeSubtraction &&
			m.QuantityChange == -3 &&
			m.PreviousQuantity == 10 &&
			m.NewQuantity == 7
	})).Return(nil)

	result, err := uc.AdjustStock(context.Background(), nil, "p1", usecase.AdjustStockInput{
		Quantity: 3,
		Type:     "subtract",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), result.NewQuantity)

	movements.AssertExpectations(t)
}

// setでもquantity_changeは常に new - previous になる
func TestAdjustStock_SetRecordsNormalizedDelta(t *testing.T) {
	tx, products, movements, uc := newStockFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	products.On("FindForUpdate", mock.Anything, "p1").Return(model.Product{ID: "p1", QuantityInStock: 3}, nil)
	products.On("SetQuantity", mock.Anything, "p1", int64(20)).Return(nil)
	movements.On("Create", mock.Anything, mock.MatchedBy(func(m model.StockMovement) bool {
		return m.ChangeType == model.ChangeTypeAdjustment &&
			m.QuantityChange == 17 &&
			m.PreviousQuantity == 3 &&
			m.NewQuantity == 20
	})).Return(nil)

	result, err := uc.AdjustStock(context.Background(), nil, "p1", usecase.AdjustStockInput{
		Quantity: 20,
		Type:     "set",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), result.PreviousQuantity)
	assert.Equal(t, int64(20), result.NewQuantity)

	movements.AssertExpectations(t)
}

// 負在庫になる引き落としは拒否し、数量も履歴も書かない
func TestAdjustStock_NegativeResultWritesNothing(t *testing.T) {
	tx, products, movements, uc := newStockFixture()

	tx.On("WithinTx", mock.Anything).Return(nil)
	products.On("FindForUpdate", mock.Anything, "p1").Return(model.Product{ID: "p1", QuantityInStock: 2}, nil)

	_, err := uc.AdjustStock(context.Background(), nil, "p1", usecase.AdjustStockInput{
		Quantity: 5,
		Type:     "subtract",
	})
	assertHTTPError(t, err, 400, "Stock cannot be negative")

	products.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything)
	movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStockHistory_ProductNotFound(t *testing.T) {
	_, products, _, uc := newStockFixture()

	products.On("FindByID", mock.Anything, "missing").Return(repo.ProductRecord{}, repo.ErrNotFound)

	_, err := uc.History(context.Background(), "missing")
	assertHTTPError(t, err, 404, "Product not found")
}

func TestStockHistory_Success(t *testing.T) {
	_, products, movements, uc := newStockFixture()

	products.On("FindByID", mock.Anything, "p1").Return(repo.ProductRecord{Product: model.Product{ID: "p1"}}, nil)
	movements.On("ListByProduct", mock.Anything, "p1").Return([]model.StockMovement{
		{ProductID: "p1", QuantityChange: 5},
		{ProductID: "p1", QuantityChange: -2},
	}, nil)

	got, err := uc.History(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

// =====================
// 直列化のふるまい（インメモリ台帳で再現）
// =====================

// mutexでFOR UPDATEの直列化を模したインメモリ実装
type ledgerState struct {
	mu       sync.Mutex
	quantity int64
	log      []model.StockMovement
}

type fakeTxManager struct{ state *ledgerState }

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	return fn(&fakeTxRepos{state: m.state})
}

type fakeTxRepos struct{ state *ledgerState }

func (r *fakeTxRepos) Products() repo.ProductRepository {
	return &fakeLedgerProducts{state: r.state}
}

func (r *fakeTxRepos) Movements() repo.StockMovementRepository {
	return &fakeLedgerMovements{state: r.state}
}

type fakeLedgerProducts struct{ state *ledgerState }

func (f *fakeLedgerProducts) FindForUpdate(ctx context.Context, id string) (model.Product, error) {
	return model.Product{ID: id, QuantityInStock: f.state.quantity}, nil
}

func (f *fakeLedgerProducts) SetQuantity(ctx context.Context, id string, quantity int64) error {
	f.state.quantity = quantity
	return nil
}

func (f *fakeLedgerProducts) List(ctx context.Context, q repo.ProductListQuery) ([]repo.ProductRecord, int64, error) {
	panic("not used")
}
func (f *fakeLedgerProducts) FindByID(ctx context.Context, id string) (repo.ProductRecord, error) {
	panic("not used")
}
func (f *fakeLedgerProducts) ExistsActiveSKU(ctx context.Context, sku string, excludeID string) (bool, error) {
	panic("not used")
}
func (f *fakeLedgerProducts) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used")
}
func (f *fakeLedgerProducts) Update(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used")
}
func (f *fakeLedgerProducts) SoftDelete(ctx context.Context, id string) error {
	panic("not used")
}

type fakeLedgerMovements struct{ state *ledgerState }

func (f *fakeLedgerMovements) Create(ctx context.Context, m model.StockMovement) error {
	f.state.log = append(f.state.log, m)
	return nil
}

func (f *fakeLedgerMovements) ListByProduct(ctx context.Context, productID string) ([]model.StockMovement, error) {
	panic("not used")
}
func (f *fakeLedgerMovements) ListRecent(ctx context.Context, limit int) ([]repo.StockMovementRecord, error) {
	panic("not used")
}

// 同じ商品への同時加算がすべて反映され、履歴の合計が現在値と一致すること
func TestAdjustStock_ConcurrentAdds(t *testing.T) {
	state := &ledgerState{}
	uc := usecase.NewStockUsecase(&fakeTxManager{state: state}, new(ProductRepoMock), new(MovementRepoMock))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.AdjustStock(context.Background(), nil, "p1", usecase.AdjustStockInput{
				Quantity: 1,
				Type:     "add",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(n), state.quantity)
	assert.Len(t, state.log, n)

	var sum int64
	for _, m := range state.log {
		sum += m.QuantityChange
	}
	assert.Equal(t, state.quantity, sum)
}
