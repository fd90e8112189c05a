package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/service"
	"github.com/iliyamo/summer-camp/internal/utils"
)

// AuthHandler issues access tokens. Identity itself is asserted by the
// front end's sign-in provider; this service only checks that the email
// belongs to a registered user.
type AuthHandler struct {
	users  *service.UserService // resolves the email to a registered caller
	secret string               // HMAC key shared with middleware.JWTAuth
	ttl    time.Duration        // access token lifetime
	log    *zap.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *service.UserService, secret string, ttl time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, secret: secret, ttl: ttl, log: log}
}

type tokenReq struct {
	Email string `json:"email" validate:"required,email"`
}

// Token handles POST /jwt. It answers 401 for emails that never
// registered, otherwise {"token", "expires"}.
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}
	caller, err := h.users.ResolveCaller(c.Request().Context(), req.Email)
	if err != nil {
		return respondError(c, h.log, err)
	}
	tok, err := utils.NewAccessToken(h.secret, caller.Email, h.ttl)
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("issue token: %w", err))
	}
	h.log.Debug("token issued", zap.String("email", caller.Email), zap.Time("expires", tok.Exp))
	return c.JSON(http.StatusOK, tok)
}
