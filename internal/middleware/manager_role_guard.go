package middleware

import (
	"net/http"

	"catering/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// マネージャ系ルート用。MANAGERかADMIN以外は403。
// ストア単位の担当チェックはusecase側のガードがやる。
func ManagerRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if role != string(model.RoleManager) && role != string(model.RoleAdmin) {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}
			return next(c)
		}
	}
}
