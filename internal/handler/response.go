package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 全エンドポイント共通のレスポンス形
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
	Count      *int        `json:"count,omitempty"`
}

func respondData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondList(c echo.Context, data interface{}, count int) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data, Count: &count})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Response{Success: false, Message: message})
}

// usecaseのHTTPErrorをレスポンスへ変換する。
// 想定外のエラーは詳細をログに残し、本番ではメッセージを出さない。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, Response{Success: false, Message: he.Message})
	}

	c.Logger().Error(err)
	message := "Internal server error"
	if c.Echo().Debug {
		message = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, Response{Success: false, Message: message})
}
