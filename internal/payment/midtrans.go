package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// ProviderMidtrans selects the Snap API.
const ProviderMidtrans = "midtrans"

// MidtransGateway returns a Snap token as the client secret. Snap charges
// in whole currency units, so cents are rounded to the nearest unit.
type MidtransGateway struct {
	createTransaction func(*snap.Request) (*snap.Response, *midtrans.Error)
}

// NewMidtransGateway configures a Snap client against sandbox or production.
func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	var c snap.Client
	c.New(serverKey, env)
	return &MidtransGateway{createTransaction: c.CreateTransaction}
}

func (g *MidtransGateway) Provider() string { return ProviderMidtrans }

func (g *MidtransGateway) CreateIntent(_ context.Context, ch Charge) (Intent, error) {
	orderID := ch.Reference
	if orderID == "" {
		orderID = uuid.NewString()
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: (ch.AmountCents + 50) / 100,
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
	}
	if ch.Email != "" {
		req.CustomerDetail = &midtrans.CustomerDetails{Email: ch.Email}
	}

	resp, mErr := g.createTransaction(req)
	if mErr != nil {
		msg := mErr.Message
		if msg == "" {
			msg = "snap request failed"
		}
		return Intent{}, gatewayErr(ProviderMidtrans, errors.New(msg))
	}
	if resp == nil || resp.Token == "" {
		return Intent{}, gatewayErr(ProviderMidtrans, errors.New("empty snap token"))
	}
	return Intent{ID: orderID, ClientSecret: resp.Token}, nil
}
