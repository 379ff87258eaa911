package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	products  repo.ProductRepository
	movements repo.StockMovementRepository
}

func (r *txReposGorm) Products() repo.ProductRepository        { return r.products }
func (r *txReposGorm) Movements() repo.StockMovementRepository { return r.movements }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			products:  NewProductGormRepository(tx),
			movements: NewStockMovementGormRepository(tx),
		}
		return fn(r)
	})
}
