package payment

import (
	"context"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// Bridge requests payment intents from Stripe for card payments in a fixed
// currency.
type Bridge struct {
	currency string
}

func NewBridge(secretKey, currency string) *Bridge {
	stripe.Key = secretKey
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &Bridge{currency: currency}
}

// ToMinorUnits converts a decimal price into integer minor units, truncating
// anything below cent precision. The small epsilon keeps binary float noise
// from dropping a cent (19.99 must become 1999, not 1998).
func ToMinorUnits(price float64) int64 {
	return int64(math.Trunc(price*100 + 1e-6))
}

// CreateIntent asks Stripe for a payment intent over the given price and
// returns the intent's client secret for the frontend to confirm.
func (b *Bridge) CreateIntent(ctx context.Context, price float64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(ToMinorUnits(price)),
		Currency:           stripe.String(b.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}
