package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 在庫台帳。数量の変更は必ずここを通り、
// 数量の更新と履歴の追記を同一トランザクションで行う。
type StockUsecase struct {
	tx        repo.TransactionManager
	products  repo.ProductRepository
	movements repo.StockMovementRepository
}

// DI
func NewStockUsecase(tx repo.TransactionManager, products repo.ProductRepository, movements repo.StockMovementRepository) *StockUsecase {
	return &StockUsecase{
		tx:        tx,
		products:  products,
		movements: movements,
	}
}

type AdjustStockInput struct {
	Quantity int64
	Type     string // set / add / subtract
	Notes    string
}

type AdjustStockResult struct {
	PreviousQuantity int64
	NewQuantity      int64
	Product          model.Product
}

// modeからchange_typeへの対応
func changeTypeFor(mode string) model.ChangeType {
	switch mode {
	case "add":
		return model.ChangeTypeAddition
	case "subtract":
		return model.ChangeTypeSubtraction
	default:
		return model.ChangeTypeAdjustment
	}
}

// 在庫調整。actorはnil可（システム起点の調整）。
func (u *StockUsecase) AdjustStock(ctx context.Context, actor *model.User, productID string, in AdjustStockInput) (AdjustStockResult, error) {
	switch in.Type {
	case "set", "add", "subtract":
	default:
		return AdjustStockResult{}, NewHTTPError(http.StatusBadRequest, "Type must be set, add, or subtract")
	}
	if in.Quantity < 0 {
		return AdjustStockResult{}, NewHTTPError(http.StatusBadRequest, "Quantity must be a non-negative integer")
	}

	var result AdjustStockResult

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//行ロック付きで現在値を読む。同一商品の同時調整はここで直列化される。
		p, err := r.Products().FindForUpdate(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "Product not found")
		}
		if err != nil {
			return err
		}

		var newQuantity int64
		switch in.Type {
		case "set":
			newQuantity = in.Quantity
		case "add":
			newQuantity = p.QuantityInStock + in.Quantity
		case "subtract":
			newQuantity = p.QuantityInStock - in.Quantity
		}

		//負在庫は拒否。数量も履歴も書かない。
		if newQuantity < 0 {
			return NewHTTPError(http.StatusBadRequest, "Stock cannot be negative")
		}

		if err := r.Products().SetQuantity(ctx, productID, newQuantity); err != nil {
			return err
		}

		//quantity_changeは常に「実際に適用した差分」。
		//setも new - previous に正規化するので、履歴の合計が現在値と一致し続ける。
		movement := model.StockMovement{
			ProductID:        p.ID,
			ChangeType:       changeTypeFor(in.Type),
			QuantityChange:   newQuantity - p.QuantityInStock,
			PreviousQuantity: p.QuantityInStock,
			NewQuantity:      newQuantity,
			Notes:            strings.TrimSpace(in.Notes),
		}
		if actor != nil {
			id := actor.ID
			movement.UserID = &id
		}
		if err := r.Movements().Create(ctx, movement); err != nil {
			return err
		}

		result.PreviousQuantity = p.QuantityInStock
		result.NewQuantity = newQuantity
		p.QuantityInStock = newQuantity
		result.Product = p
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return AdjustStockResult{}, err
		}
		return AdjustStockResult{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return result, nil
}

// 商品ごとの調整履歴。作成順（台帳をそのまま前から読める並び）。
func (u *StockUsecase) History(ctx context.Context, productID string) ([]model.StockMovement, error) {
	if _, err := u.products.FindByID(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	movements, err := u.movements.ListByProduct(ctx, productID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return movements, nil
}
