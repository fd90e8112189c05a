package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/service"
)

// ShowcaseHandler serves the public home page rankings.
type ShowcaseHandler struct {
	showcase *service.ShowcaseService // read-only ranking collections
	log      *zap.Logger
}

// NewShowcaseHandler constructs a ShowcaseHandler.
func NewShowcaseHandler(showcase *service.ShowcaseService, log *zap.Logger) *ShowcaseHandler {
	return &ShowcaseHandler{showcase: showcase, log: log}
}

// PopularClasses handles GET /popular-classes. Classes come back ordered by
// enrolled students, highest first; ties keep insertion order.
func (h *ShowcaseHandler) PopularClasses(c echo.Context) error {
	out, err := h.showcase.PopularClasses(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// PopularTeachers handles GET /popular-teachers with the same ordering as
// PopularClasses.
func (h *ShowcaseHandler) PopularTeachers(c echo.Context) error {
	out, err := h.showcase.PopularTeachers(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
