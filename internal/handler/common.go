package handler

import (
	"net/http"

	"catering/internal/domain/model"
	"catering/internal/middleware"
	"catering/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(usecase.ToHTTPError(err)); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getActorFromContext(c echo.Context) (usecase.Actor, bool) {
	email, ok := c.Get(middleware.CtxUserEmailKey).(string)
	if !ok || email == "" {
		return usecase.Actor{}, false
	}
	role, ok := c.Get(middleware.CtxUserRoleKey).(string)
	if !ok || role == "" {
		return usecase.Actor{}, false
	}
	return usecase.Actor{Email: email, Role: model.Role(role)}, true
}
