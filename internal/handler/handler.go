// Package handler adapts the resource services to HTTP. Handlers decode and
// validate the request, pass the resolved caller to the service and write
// either the raw store result or the standard error body
//
//	{"error": "<message>", "kind": "<machine kind>"}
//
// with the status derived from the error's apperr kind.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/apperr"
)

// Validator plugs go-playground/validator into echo's c.Validate.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate reports the first failing field as an apperr.ErrInvalidRequest.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed on %s", apperr.ErrInvalidRequest, jsonName(fe), fe.Tag())
	}
	return fmt.Errorf("%w: %v", apperr.ErrInvalidRequest, err)
}

func jsonName(fe validator.FieldError) string {
	f := fe.Field()
	if f == "" {
		return "body"
	}
	return strings.ToLower(f[:1]) + f[1:]
}

// bind decodes the JSON body into dst and validates it.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", apperr.ErrInvalidRequest)
	}
	if err := c.Validate(dst); err != nil {
		if errors.Is(err, echo.ErrValidatorNotRegistered) {
			return nil
		}
		return err
	}
	return nil
}

// respondError writes the standard error body. Server side failures are
// logged with the request id; client errors are not.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Int("status", status),
			zap.Error(err))
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	return c.JSON(status, echo.Map{"error": msg, "kind": apperr.KindOf(err)})
}

// HTTPErrorHandler renders echo's own errors (404 route, 405, bind
// failures raised outside handlers) in the same shape as respondError.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			kind := apperr.KindInvalidRequest
			switch he.Code {
			case http.StatusNotFound:
				kind = apperr.KindNotFound
			case http.StatusUnauthorized:
				kind = apperr.KindUnauthorized
			case http.StatusForbidden:
				kind = apperr.KindForbidden
			}
			if he.Code >= http.StatusInternalServerError {
				kind = apperr.KindInternal
			}
			_ = c.JSON(he.Code, echo.Map{"error": fmt.Sprint(he.Message), "kind": kind})
			return
		}
		_ = respondError(c, log, err)
	}
}
