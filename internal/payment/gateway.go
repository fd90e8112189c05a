// Package payment isolates the third-party payment gateway. The rest of the
// service only sees the Gateway interface: it asks for a payment intent and
// gets back the client secret the browser needs to confirm the charge.
// Persisting the completed payment is a separate step owned by
// service.PaymentService; the two are not linked by any transaction.
package payment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/iliyamo/summer-camp/internal/apperr"
)

// Charge describes the amount to collect.
type Charge struct {
	AmountCents int64
	Currency    string
	// Reference is an opaque caller supplied id (order id, idempotency key).
	// It must be unique per charge.
	Reference   string
	Email       string
	Description string
}

// Intent is what the browser needs to complete the payment.
type Intent struct {
	ID           string `json:"id,omitempty"`
	ClientSecret string `json:"clientSecret"`
}

// Gateway creates payment intents with an external provider. Every error
// returned by an implementation wraps apperr.ErrPaymentGateway.
type Gateway interface {
	Provider() string
	CreateIntent(ctx context.Context, ch Charge) (Intent, error)
}

// ToCents converts a decimal price in major units into the smallest
// currency unit, rounding half away from zero. Non-positive or non-finite
// prices are rejected.
func ToCents(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: price must be a positive amount", apperr.ErrInvalidRequest)
	}
	cents := int64(math.Round(price * 100))
	if cents <= 0 {
		return 0, fmt.Errorf("%w: price must be at least one cent", apperr.ErrInvalidRequest)
	}
	return cents, nil
}

// Options selects and configures a provider.
type Options struct {
	Provider   string // stripe or midtrans
	SecretKey  string
	Production bool // midtrans only
}

// New returns the gateway named by opts.Provider.
func New(opts Options) (Gateway, error) {
	if strings.TrimSpace(opts.SecretKey) == "" {
		return nil, fmt.Errorf("payment: secret key is not configured")
	}
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderStripe:
		return NewStripeGateway(opts.SecretKey), nil
	case ProviderMidtrans:
		return NewMidtransGateway(opts.SecretKey, opts.Production), nil
	}
	return nil, fmt.Errorf("payment: unknown provider %q", opts.Provider)
}

func gatewayErr(provider string, err error) error {
	return fmt.Errorf("%s: %w: %w", provider, apperr.ErrPaymentGateway, err)
}
