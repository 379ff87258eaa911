package server

import (
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// 各エンドポイントのハンドラ一式
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Category  *handler.CategoryHandler
	Product   *handler.ProductHandler
	Dashboard *handler.DashboardHandler
}

func New(cfg config.Config, authMW echo.MiddlewareFunc, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	//開発時はエラーレスポンスに詳細を出す
	e.Debug = !cfg.IsProduction()

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	//アップロード済み画像
	e.Static("/uploads", cfg.UploadDir)

	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":      "OK",
			"environment": cfg.GoEnv,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	h.Auth.RegisterRoutes(e, authMW)
	h.User.RegisterRoutes(e, authMW)
	h.Category.RegisterRoutes(e, authMW)
	h.Product.RegisterRoutes(e, authMW)
	h.Dashboard.RegisterRoutes(e, authMW)

	return e
}
