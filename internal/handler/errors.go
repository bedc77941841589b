package handler

import (
	"net/http"

	"pos/internal/middleware"
	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// AuthJWTが入れた端末・担当者
func getTerminalFromContext(c echo.Context) (usecase.Terminal, bool) {
	terminalID, ok := c.Get(middleware.CtxTerminalIDKey).(string)
	if !ok || terminalID == "" {
		return usecase.Terminal{}, false
	}

	operatorID, ok := c.Get(middleware.CtxOperatorIDKey).(int64)
	if !ok || operatorID <= 0 {
		return usecase.Terminal{}, false
	}

	return usecase.Terminal{ID: terminalID, OperatorID: operatorID}, true
}
