package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/middleware"
	"github.com/iliyamo/summer-camp/internal/service"
)

// PaymentHandler fronts the payment gateway and the payments collection.
// The client first asks for an intent, confirms the card with the
// gateway itself, then reports the completed transaction back.
type PaymentHandler struct {
	payments *service.PaymentService
	currency string // default ISO currency, lower case
	log      *zap.Logger
}

// NewPaymentHandler builds the handler; currency is used when the request
// does not name one.
func NewPaymentHandler(payments *service.PaymentService, currency string, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, currency: currency, log: log}
}

// CreateIntent handles POST /create-payment-intent and answers
// {"clientSecret": "..."}.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	var in service.IntentInput
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	// clients built for the single-currency deployment never send one
	if in.Currency == "" {
		in.Currency = h.currency
	}
	intent, err := h.payments.CreateIntent(c.Request().Context(), middleware.CallerFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, intent)
}

// Record handles POST /save-payment-info. Reporting the same
// transactionId again returns the first record with created=false.
func (h *PaymentHandler) Record(c echo.Context) error {
	var in service.PaymentInput
	if err := bind(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	res, err := h.payments.Record(c.Request().Context(), middleware.CallerFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Enrolled handles GET /enrolled-class?email=, newest payment first.
func (h *PaymentHandler) Enrolled(c echo.Context) error {
	out, err := h.payments.Enrolled(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
