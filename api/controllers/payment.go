package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vignerons/storefront-backend/api/responses"
	"github.com/vignerons/storefront-backend/api/validators"
	pkgerrors "github.com/vignerons/storefront-backend/pkg/errors"
	"github.com/vignerons/storefront-backend/pkg/logger"
	"github.com/vignerons/storefront-backend/pkg/stripe"
)

type paymentIntentRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Currency string          `json:"currency,omitempty"`
}

// PaymentIntent creates a payment intent for the quoted total and returns
// the client secret. Capture and webhooks stay on the payment provider.
func PaymentIntent(client *stripe.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment client unavailable"))
			return
		}

		var payload paymentIntentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !payload.Amount.IsPositive() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive"))
			return
		}

		currency := payload.Currency
		if currency == "" {
			currency = "eur"
		}

		cents := payload.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		secret, err := client.CreatePaymentIntent(r.Context(), cents, currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"client_secret": secret})
	}
}
