package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/summer-camp/internal/apperr"
)

// RequireRole rejects callers whose stored role is not one of roles. It
// must run after ResolveCaller. Services still run the full policy check;
// this only stops whole route groups early.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := CallerFrom(c)
			if caller.Email == "" {
				return abort(c, fmt.Errorf("%w: missing identity", apperr.ErrUnauthorized))
			}
			if !allowed[caller.Role] {
				return abort(c, fmt.Errorf("%w: role %q may not access %s", apperr.ErrForbidden, caller.Role, c.Path()))
			}
			return next(c)
		}
	}
}
