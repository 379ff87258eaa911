package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type UserUsecase struct {
	users repo.UserRepository
}

// DI
func NewUserUsecase(users repo.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

func (u *UserUsecase) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toUserDTO(&users[i]))
	}
	return dtos, nil
}

func (u *UserUsecase) GetUser(ctx context.Context, id string) (*UserDTO, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusNotFound, "User not found")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

type UpdateUserInput struct {
	Name     *string
	Role     *string
	IsActive *bool
}

// 管理者によるユーザー更新。
// 自分自身の行は更新できない（自分のroleや停止フラグを触らせない）。
func (u *UserUsecase) UpdateUser(ctx context.Context, actor *model.User, id string, in UpdateUserInput) (*UserDTO, error) {
	if actor != nil && actor.ID == id {
		return nil, NewHTTPError(http.StatusForbidden, "You cannot modify your own account")
	}

	if in.Role != nil && !model.Role(*in.Role).Valid() {
		return nil, NewHTTPError(http.StatusBadRequest, "Role must be admin or staff")
	}

	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusNotFound, "User not found")
	}

	//指定されたフィールドだけ上書き
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		user.Role = model.Role(*in.Role)
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := u.users.Update(ctx, user); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// ユーザー削除＝停止。物理削除はしない。自分自身は削除できない。
func (u *UserUsecase) DeactivateUser(ctx context.Context, actor *model.User, id string) error {
	if actor != nil && actor.ID == id {
		return NewHTTPError(http.StatusForbidden, "You cannot deactivate your own account")
	}

	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return NewHTTPError(http.StatusNotFound, "User not found")
	}

	if err := u.users.Deactivate(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
