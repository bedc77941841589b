package server

import (
	"log/slog"

	"pos/internal/handler"
	"pos/internal/middleware"
	"pos/internal/repository"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	Logger    *slog.Logger
	Renderer  echo.Renderer
	JWTSecret string
	Operators repository.OperatorRepository
	AuthH     *handler.AuthHandler
	PosH      *handler.PosHandler
}

// echoを組み立てる
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = d.Renderer

	e.Use(middleware.Logging(d.Logger))
	e.Use(middleware.Metrics())

	RegisterRoutes(e, d)
	return e
}

func Start(addr string, d Deps) error {
	return New(d).Start(addr)
}
