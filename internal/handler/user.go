package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/apperr"
	"github.com/iliyamo/summer-camp/internal/middleware"
	"github.com/iliyamo/summer-camp/internal/service"
)

// UserHandler serves registration, the instructor directory and the admin
// role management screens.
type UserHandler struct {
	users *service.UserService
	log   *zap.Logger
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// roleReq is the body of PATCH /users/:id.
type roleReq struct {
	Role string `json:"role" validate:"required"`
}

// Create handles POST /users. A second sign-in with the same email answers
// 409 duplicate_user and writes nothing.
func (h *UserHandler) Create(c echo.Context) error {
	var in service.UserInput
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.users.Create(c.Request().Context(), in)
	// the client reads the outcome to tell a returning user from a new one
	if errors.Is(err, apperr.ErrDuplicateUser) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   err.Error(),
			"kind":    apperr.KindDuplicateUser,
			"outcome": res.Outcome,
		})
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// List handles GET /users (admin).
func (h *UserHandler) List(c echo.Context) error {
	out, err := h.users.List(c.Request().Context(), middleware.CallerFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Instructors handles GET /instructors.
func (h *UserHandler) Instructors(c echo.Context) error {
	out, err := h.users.Instructors(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Current handles GET /current-user?email=; an unknown email is null.
func (h *UserHandler) Current(c echo.Context) error {
	u, err := h.users.Current(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, u)
}

// SetRole handles PATCH /users/:id (admin).
func (h *UserHandler) SetRole(c echo.Context) error {
	var req roleReq
	if err := bind(c, &req); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.users.SetRole(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"), req.Role)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
