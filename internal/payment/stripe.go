package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ProviderStripe is the default provider.
const ProviderStripe = "stripe"

// StripeGateway creates card-only PaymentIntents.
type StripeGateway struct {
	newIntent func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// NewStripeGateway builds a gateway authenticated with the secret key.
func NewStripeGateway(secretKey string) *StripeGateway {
	sc := client.New(secretKey, nil)
	return &StripeGateway{newIntent: sc.PaymentIntents.New}
}

func (g *StripeGateway) Provider() string { return ProviderStripe }

func (g *StripeGateway) CreateIntent(ctx context.Context, ch Charge) (Intent, error) {
	currency := strings.ToLower(strings.TrimSpace(ch.Currency))
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(ch.AmountCents),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	if ch.Email != "" {
		params.ReceiptEmail = stripe.String(ch.Email)
	}
	if ch.Description != "" {
		params.Description = stripe.String(ch.Description)
	}
	if ch.Reference != "" {
		params.SetIdempotencyKey(ch.Reference)
	}

	pi, err := g.newIntent(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) {
			return Intent{}, gatewayErr(ProviderStripe, fmt.Errorf("%s: %s", se.Code, se.Msg))
		}
		return Intent{}, gatewayErr(ProviderStripe, err)
	}
	if pi == nil || pi.ClientSecret == "" {
		return Intent{}, gatewayErr(ProviderStripe, errors.New("empty client secret"))
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
