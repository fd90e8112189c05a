// Package middleware contains the echo middleware shared by all routes:
// bearer token authentication, caller resolution, role checks and the
// Redis token bucket.
package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/summer-camp/internal/apperr"
	"github.com/iliyamo/summer-camp/internal/utils"
)

// JWTAuth validates the Bearer access token and stores the email it was
// issued for under the "email" context key. Requests without a valid
// token are answered with 401 before reaching the handler.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return abort(c, fmt.Errorf("%w: missing bearer token", apperr.ErrUnauthorized))
			}
			email, err := utils.ParseAccessToken(secret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
			if err != nil {
				return abort(c, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err))
			}
			c.Set(emailKey, email)
			return next(c)
		}
	}
}

// abort writes the standard error body and stops the chain.
func abort(c echo.Context, err error) error {
	return c.JSON(apperr.Status(err), echo.Map{
		"error": err.Error(),
		"kind":  apperr.KindOf(err),
	})
}
