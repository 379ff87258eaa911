package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(email string, password string, name string, role string) error
	ValidateLogin(email string, password string) error
	ValidateChangePassword(currentPassword string, newPassword string) error
}

type UserDTO struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repo.UserRepository
	validator AuthValidator
}

// DI
func NewAuthUsecase(cfg config.Config, users repo.UserRepository, validator AuthValidator) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		validator: validator,
	}
}

func (u *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := u.validator.ValidateLogin(req.Email, req.Password); err != nil {
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return nil, NewHTTPError(http.StatusUnauthorized, "Account is deactivated. Contact administrator.")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := u.issueToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return &LoginResponse{
		Token: token,
		User:  toUserDTO(user),
	}, nil
}

// 管理者によるユーザー登録。roleは admin/staff のどちらでもよい。
func (u *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	if req.Role == "" {
		req.Role = string(model.RoleStaff)
	}
	if err := u.validator.ValidateRegister(req.Email, req.Password, req.Name, req.Role); err != nil {
		return nil, err
	}

	user, err := u.createUser(ctx, req, model.Role(req.Role))
	if err != nil {
		return nil, err
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// 公開登録。roleは必ずstaffに固定し、登録後そのままログインさせる。
func (u *AuthUsecase) RegisterPublic(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	req.Role = string(model.RoleStaff)
	if err := u.validator.ValidateRegister(req.Email, req.Password, req.Name, req.Role); err != nil {
		return nil, err
	}

	user, err := u.createUser(ctx, req, model.RoleStaff)
	if err != nil {
		return nil, err
	}

	token, err := u.issueToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return &LoginResponse{
		Token: token,
		User:  toUserDTO(user),
	}, nil
}

func (u *AuthUsecase) createUser(ctx context.Context, req RegisterRequest, role model.Role) (*model.User, error) {
	email := strings.TrimSpace(req.Email)

	existing, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return nil, NewHTTPError(http.StatusConflict, "User with this email already exists")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(pwHash),
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return user, nil
}

func (u *AuthUsecase) Me(user *model.User) UserDTO {
	return toUserDTO(user)
}

func (u *AuthUsecase) ChangePassword(ctx context.Context, user *model.User, req ChangePasswordRequest) error {
	if err := u.validator.ValidateChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	//現在のパスワードが一致しなければ変更させない
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	if err := u.users.UpdatePassword(ctx, user.ID, string(newHash)); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// access token発行
func (u *AuthUsecase) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(u.cfg.JWTTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(u.cfg.JWTSecret))
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
