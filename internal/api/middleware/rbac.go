package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RolesAllowed gates a route to the given role claims. Requests whose role
// is not in the set are rejected with 403 through the central error handler.
func RolesAllowed(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
