package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/summer-camp/internal/middleware"
	"github.com/iliyamo/summer-camp/internal/model"
)

// registerAdmin registers user management and the review queue. The role
// check here rejects non-admins before the body is even decoded.
func registerAdmin(e *echo.Echo, h handlers, authed []echo.MiddlewareFunc) {
	admin := with(authed, middleware.RequireRole(model.RoleAdmin))

	// user management
	e.GET("/users", h.users.List, admin...)
	e.PATCH("/users/:id", h.users.SetRole, admin...)

	// approve or deny a pending listing
	e.PATCH("/all-added-classes/:id", h.classes.Review, admin...)
}
