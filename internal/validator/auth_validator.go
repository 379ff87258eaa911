package validator

import (
	"net/http"
	"regexp"
	"strings"

	"app/internal/domain/model"
	"app/internal/usecase"
)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(email string, password string, name string, role string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}
	if !isEmailLike(email) {
		return usecase.NewHTTPError(http.StatusBadRequest, "Valid email is required")
	}
	if len(password) < 6 {
		return usecase.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	}
	if strings.TrimSpace(name) == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if !model.Role(role).Valid() {
		return usecase.NewHTTPError(http.StatusBadRequest, "Role must be admin or staff")
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(email string, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}
	if !isEmailLike(email) {
		return usecase.NewHTTPError(http.StatusBadRequest, "Valid email is required")
	}

	return nil
}

func (v *authValidator) ValidateChangePassword(currentPassword string, newPassword string) error {
	if currentPassword == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "Current password is required")
	}
	if len(newPassword) < 6 {
		return usecase.NewHTTPError(http.StatusBadRequest, "New password must be at least 6 characters")
	}
	return nil
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}
