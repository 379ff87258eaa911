package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	g := e.Group("/api/auth")

	g.POST("/login", h.login)
	g.POST("/register-public", h.registerPublic)

	//登録は管理者のみ
	g.POST("/register", h.register, auth, middleware.RequireRole(model.RoleAdmin))
	g.GET("/me", h.me, auth)
	g.PUT("/password", h.changePassword, auth)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusCreated, "User registered successfully", user)
}

// 公開登録。roleは必ずstaffになる。
func (h *AuthHandler) registerPublic(c echo.Context) error {
	var req usecase.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.uc.RegisterPublic(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusCreated, "Registration successful", res)
}

func (h *AuthHandler) me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return respondData(c, http.StatusOK, h.uc.Me(user))
}

func (h *AuthHandler) changePassword(c echo.Context) error {
	var req usecase.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user := middleware.CurrentUser(c)
	if err := h.uc.ChangePassword(c.Request().Context(), user, req); err != nil {
		return writeError(c, err)
	}

	return respondMessage(c, http.StatusOK, "Password updated successfully", nil)
}
