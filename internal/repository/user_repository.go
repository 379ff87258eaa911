package repository

import (
	"app/internal/domain/model"
	"context"
)

// 保存・取得を約束。見つからないときは (nil, nil) を返す。
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	// 論理削除（is_active=false）
	Deactivate(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
