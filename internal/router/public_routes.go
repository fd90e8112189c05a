package router

import "github.com/labstack/echo/v4"

// registerPublic registers the read endpoints that need no token, plus the
// token exchange and the probes. Probes skip the rate limiter.
func registerPublic(e *echo.Echo, h handlers, limit echo.MiddlewareFunc) {
	// probes
	e.GET("/", h.health.Root)
	e.GET("/healthz", h.health.Ready)

	// identity
	e.POST("/jwt", h.auth.Token, limit)
	e.POST("/users", h.users.Create, limit)
	e.GET("/current-user", h.users.Current, limit)
	e.GET("/instructors", h.users.Instructors, limit)

	// home page
	e.GET("/popular-classes", h.showcase.PopularClasses, limit)
	e.GET("/popular-teachers", h.showcase.PopularTeachers, limit)

	// dashboards; owner listings require ?email=
	e.GET("/add-classes", h.classes.ListByInstructor, limit)
	e.GET("/all-added-classes", h.classes.ListAll, limit)

	e.GET("/booking-class", h.bookings.ListByStudent, limit)
	e.GET("/booking-class-payment/:id", h.bookings.Get, limit)
	e.GET("/enrolled-class", h.payments.Enrolled, limit)
}
