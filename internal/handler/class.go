package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/middleware"
	"github.com/iliyamo/summer-camp/internal/service"
)

// ClassHandler serves instructor listings, the admin review queue and the
// seat reservation.
type ClassHandler struct {
	classes *service.ClassService // listing rules, review and seat counters
	log     *zap.Logger
}

// NewClassHandler constructs a ClassHandler.
func NewClassHandler(classes *service.ClassService, log *zap.Logger) *ClassHandler {
	return &ClassHandler{classes: classes, log: log}
}

// Create handles POST /add-classes. Status and counters in the body are
// ignored; every submission starts pending with zero enrolled students.
func (h *ClassHandler) Create(c echo.Context) error {
	var in service.ClassInput
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.classes.Create(c.Request().Context(), middleware.CallerFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ListByInstructor handles GET /add-classes?email=.
func (h *ClassHandler) ListByInstructor(c echo.Context) error {
	out, err := h.classes.ListByInstructor(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListAll handles GET /all-added-classes.
func (h *ClassHandler) ListAll(c echo.Context) error {
	out, err := h.classes.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Edit handles PATCH /update-class/:id.
func (h *ClassHandler) Edit(c echo.Context) error {
	var p service.ClassPatch
	if err := bind(c, &p); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.classes.Edit(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Review handles PATCH /all-added-classes/:id.
func (h *ClassHandler) Review(c echo.Context) error {
	var p service.ReviewPatch
	if err := bind(c, &p); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.classes.Review(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ReserveSeat handles PATCH /reduce-class-seat/:id.
func (h *ClassHandler) ReserveSeat(c echo.Context) error {
	res, err := h.classes.ReserveSeat(c.Request().Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
