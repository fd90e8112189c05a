package router

import "github.com/labstack/echo/v4"

// registerStudent registers booking, seat and payment endpoints. Every
// route requires a token; the student role and ownership are checked by
// the services.
func registerStudent(e *echo.Echo, h handlers, authed []echo.MiddlewareFunc) {
	// cart: book a class, drop it again
	e.POST("/booking-class", h.bookings.Create, authed...)
	e.DELETE("/booking-class/:id", h.bookings.Delete, authed...)

	// checkout: take a seat, charge the card, record the payment
	e.PATCH("/reduce-class-seat/:id", h.classes.ReserveSeat, authed...)
	e.POST("/create-payment-intent", h.payments.CreateIntent, authed...)
	e.POST("/save-payment-info", h.payments.Record, authed...)
}
