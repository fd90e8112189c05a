package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/middleware"
	"github.com/iliyamo/summer-camp/internal/service"
)

// BookingHandler serves a student's booked-but-unpaid classes. Reads are
// public and filtered by the email query parameter; creating and removing
// a booking needs a token, and the service checks that the booking belongs
// to the caller.
type BookingHandler struct {
	bookings *service.BookingService // booking rules and ownership checks
	log      *zap.Logger             // request-scoped failures only
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings *service.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, log: log}
}

// Create handles POST /booking-class. The body is the class snapshot the
// student picked plus their own email, which must match the token. It
// answers 200 with the raw insert result.
func (h *BookingHandler) Create(c echo.Context) error {
	// decode and validate the snapshot
	var in service.BookingInput
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.bookings.Create(c.Request().Context(), middleware.CallerFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ListByStudent handles GET /booking-class?email=. A missing email is 400
// rather than a listing of every booking.
func (h *BookingHandler) ListByStudent(c echo.Context) error {
	out, err := h.bookings.ListByStudent(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /booking-class-payment/:id; a missing booking is null.
func (h *BookingHandler) Get(c echo.Context) error {
	b, err := h.bookings.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /booking-class/:id. Deleting twice is not an error.
func (h *BookingHandler) Delete(c echo.Context) error {
	res, err := h.bookings.Delete(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
