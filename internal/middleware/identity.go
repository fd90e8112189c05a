package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/summer-camp/internal/policy"
)

const (
	emailKey  = "email"
	callerKey = "caller"
)

// CallerResolver looks up the stored role of an authenticated email.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, email string) (policy.Caller, error)
}

// ResolveCaller turns the email set by JWTAuth into a policy.Caller. It
// must run after JWTAuth. Unknown emails are rejected with 401.
func ResolveCaller(r CallerResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, err := r.ResolveCaller(c.Request().Context(), Email(c))
			if err != nil {
				return abort(c, err)
			}
			c.Set(callerKey, caller)
			return next(c)
		}
	}
}

// Email returns the authenticated email, or "" for anonymous requests.
func Email(c echo.Context) string {
	if v, ok := c.Get(emailKey).(string); ok {
		return v
	}
	return ""
}

// CallerFrom returns the caller stored by ResolveCaller. The zero Caller
// is anonymous and fails every policy check.
func CallerFrom(c echo.Context) policy.Caller {
	if v, ok := c.Get(callerKey).(policy.Caller); ok {
		return v
	}
	return policy.Caller{}
}
