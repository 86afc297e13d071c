package server

import (
	"net/http"

	"catering/internal/config"
	"catering/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	authH *handler.AuthHandler,
	orderH *handler.OrderHandler,
	managerH *handler.ManagerOrderHandler,
	paymentH *handler.PaymentHandler,
) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authH.RegisterRoutes(e)
	orderH.RegisterRoutes(e, cfg)
	managerH.RegisterRoutes(e, cfg)
	paymentH.RegisterRoutes(e)
}
