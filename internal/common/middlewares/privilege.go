package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Privileges stored in staff_privilege.privilege.
const (
	PrivilegeViewDashboard  = "view_dashboard"
	PrivilegeViewStatistics = "view_statistics"
	PrivilegeManageRecords  = "manage_records"
)

// RequirePrivilege memeriksa apakah klaim JWT memiliki privilege yang dibutuhkan.
// Harus dipasang setelah JWTMiddleware.
func RequirePrivilege(requiredPriv string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return unauthorized(c, "Missing or invalid JWT claims")
			}
			if !claims.HasPrivilege(requiredPriv) {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"status":  http.StatusForbidden,
					"message": "Anda tidak memiliki hak akses",
					"data":    nil,
				})
			}
			return next(c)
		}
	}
}
