package middleware

import (
	"errors"
	"net/http"
	"strings"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const CtxUserKey = "auth_user" // *model.User

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Success: false, Message: msg}
}

// bearerAuth用のJWT検証ミドルウェア。
// トークンを検証したあと必ずDBからユーザーを引き直す（停止済みを弾くため）。
// 失敗理由はログにだけ残し、レスポンスは一律401にする。
func AuthJWT(cfg config.Config, users repo.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				c.Logger().Warn("auth rejected: no token")
				return c.JSON(http.StatusUnauthorized, errorJSON("Access denied. No token provided."))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.Logger().Warn("auth rejected: invalid authorization header")
				return c.JSON(http.StatusUnauthorized, errorJSON("Access denied. No token provided."))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				c.Logger().Warn("auth rejected: empty token")
				return c.JSON(http.StatusUnauthorized, errorJSON("Access denied. No token provided."))
			}

			//JWTをパースして検証する
			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					c.Logger().Warn("auth rejected: token expired")
					return c.JSON(http.StatusUnauthorized, errorJSON("Token expired."))
				}
				c.Logger().Warnf("auth rejected: invalid token: %v", err)
				return c.JSON(http.StatusUnauthorized, errorJSON("Invalid token."))
			}
			if token == nil || !token.Valid {
				c.Logger().Warn("auth rejected: invalid token")
				return c.JSON(http.StatusUnauthorized, errorJSON("Invalid token."))
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				c.Logger().Warn("auth rejected: invalid claims")
				return c.JSON(http.StatusUnauthorized, errorJSON("Invalid token."))
			}

			sub, ok := claims["sub"].(string)
			if !ok || sub == "" {
				c.Logger().Warn("auth rejected: invalid sub")
				return c.JSON(http.StatusUnauthorized, errorJSON("Invalid token."))
			}

			//トークンが有効でも、ユーザーが消えている/停止されていれば弾く
			user, err := users.FindByID(c.Request().Context(), sub)
			if err != nil {
				c.Logger().Errorf("auth lookup failed: %v", err)
				return c.JSON(http.StatusInternalServerError, errorJSON("Internal server error."))
			}
			if user == nil {
				c.Logger().Warnf("auth rejected: unknown subject %s", sub)
				return c.JSON(http.StatusUnauthorized, errorJSON("User not found."))
			}
			if !user.IsActive {
				c.Logger().Warnf("auth rejected: deactivated account %s", sub)
				return c.JSON(http.StatusUnauthorized, errorJSON("Account is deactivated."))
			}

			//contextへ保存
			c.Set(CtxUserKey, user)

			return next(c)
		}
	}
}

// contextから認証済みユーザーを取り出す。未認証ならnil。
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(CtxUserKey).(*model.User)
	return user
}
