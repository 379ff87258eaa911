package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUpdateUser_SelfRejected(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewUserUsecase(users)

	actor := &model.User{ID: "u1", Role: model.RoleAdmin}
	active := false

	//自分のrole変更も停止もペイロードに関係なく403
	_, err := uc.UpdateUser(context.Background(), actor, "u1", usecase.UpdateUserInput{IsActive: &active})
	assertHTTPError(t, err, 403, "You cannot modify your own account")

	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUser_InvalidRole(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewUserUsecase(users)

	actor := &model.User{ID: "u1", Role: model.RoleAdmin}
	role := "superadmin"

	_, err := uc.UpdateUser(context.Background(), actor, "u2", usecase.UpdateUserInput{Role: &role})
	assertHTTPError(t, err, 400, "Role must be admin or staff")
}

func TestUpdateUser_NotFound(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewUserUsecase(users)

	users.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	actor := &model.User{ID: "u1", Role: model.RoleAdmin}
	_, err := uc.UpdateUser(context.Background(), actor, "missing", usecase.UpdateUserInput{})
	assertHTTPError(t, err, 404, "User not found")
}

func TestUpdateUser_PartialOverwrite(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewUserUsecase(users)

	existing := &model.User{ID: "u2", Name: "Old", Role: model.RoleStaff, IsActive: true}
	users.On("FindByID", mock.Anything, "u2").Return(existing, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == "u2" && u.Name == "New" && u.Role == model.RoleStaff && u.IsActive
	})).Return(nil)

	actor := &model.User{ID: "u1", Role: model.RoleAdmin}
	name := "New"
	dto, err := uc.UpdateUser(context.Background(), actor, "u2", usecase.UpdateUserInput{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, "New", dto.Name)

	users.AssertExpectations(t)
}

func TestDeactivateUser_SelfRejected(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewUserUsecase(users)

	actor := &model.User{ID: "u1", Role: model.RoleAdmin}
	err := uc.DeactivateUser(context.Background(), actor, "u1")
	assertHTTPError(t, err, 403, "You cannot deactivate your own account")

	users.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}

func TestDeactivateUser_Success(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewUserUsecase(users)

	users.On("FindByID", mock.Anything, "u2").Return(&model.User{ID: "u2"}, nil)
	users.On("Deactivate", mock.Anything, "u2").Return(nil)

	actor := &model.User{ID: "u1", Role: model.RoleAdmin}
	err := uc.DeactivateUser(context.Background(), actor, "u2")
	assert.NoError(t, err)

	users.AssertExpectations(t)
}
