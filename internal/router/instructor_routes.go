package router

import "github.com/labstack/echo/v4"

// registerInstructor registers listing submission and editing. The
// instructor role and listing ownership are enforced by ClassService.
func registerInstructor(e *echo.Echo, h handlers, authed []echo.MiddlewareFunc) {
	e.POST("/add-classes", h.classes.Create, authed...)
	e.PATCH("/update-class/:id", h.classes.Edit, authed...)
}
