package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-records/internal/core/domain"
	"github.com/peoplehub/hr-records/internal/core/token"
)

// Identity is the authenticated caller, as proven by a verified token. It is
// the only value the authentication stage hands to later stages: the
// authorization stage and the handlers read it through IdentityFrom instead
// of poking at loose context keys.
type Identity struct {
	SubjectID string
	Username  string
	Role      domain.Role
}

const identityKey = "auth.identity"

// IdentityFrom extracts the Identity set by Authenticate. ok is false when
// the request never passed the authentication stage.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// WithIdentity attaches an Identity to the context. Exported for handler
// tests; production requests only go through Authenticate.
func WithIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}

// Authenticate verifies the Bearer token and attaches the caller's Identity.
// Public routes simply do not mount this middleware; everything behind it
// rejects missing or invalid credentials with 401.
func Authenticate(codec *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := codec.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			WithIdentity(c, Identity{
				SubjectID: claims.Subject,
				Username:  claims.Username,
				Role:      claims.Role,
			})
			return next(c)
		}
	}
}
