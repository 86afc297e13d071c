package server

import (
	"context"

	"catering/internal/config"
	"catering/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func New(
	cfg config.Config,
	authH *handler.AuthHandler,
	orderH *handler.OrderHandler,
	managerH *handler.ManagerOrderHandler,
	paymentH *handler.PaymentHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	RegisterRoutes(e, cfg, authH, orderH, managerH, paymentH)
	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}

func Shutdown(ctx context.Context, e *echo.Echo) error {
	return e.Shutdown(ctx)
}
