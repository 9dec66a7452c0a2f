package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-records/internal/core/domain"
)

// RequireRoles enforces role-based access control. It only works behind
// Authenticate: a missing Identity means the request skipped the
// authentication stage and is rejected with 401, never silently allowed.
// With no roles declared the route is open to any authenticated caller.
// Ownership checks are not expressible here; they belong to the handlers.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if len(allowed) == 0 {
				return next(c)
			}
			if _, ok := allowed[id.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("requires one of %v, have %q", roles, id.Role))
			}
			return next(c)
		}
	}
}
