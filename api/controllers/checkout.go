package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/multierr"

	"github.com/vignerons/storefront-backend/api/middleware"
	"github.com/vignerons/storefront-backend/api/responses"
	"github.com/vignerons/storefront-backend/api/validators"
	checkoutsvc "github.com/vignerons/storefront-backend/internal/checkout"
	pkgerrors "github.com/vignerons/storefront-backend/pkg/errors"
	"github.com/vignerons/storefront-backend/pkg/logger"
)

// CheckoutQuote prices the cart with the selected delivery method and
// coupon. A rejected coupon surfaces as a 422 with the rule's message.
func CheckoutQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutsvc.QuoteInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), middleware.CartTokenFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// CheckoutSubmit places the order. The cart survives any failure and is
// cleared only once the commerce backend has accepted the order.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutsvc.SubmitInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload.CustomerID = middleware.CustomerIDFromContext(r.Context())

		order, err := svc.Submit(r.Context(), middleware.CartTokenFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// CheckoutStep validates the gate for one checkout step so the frontend
// can block forward navigation. The response lists the blocking fields;
// an empty list means the step is complete.
func CheckoutStep(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		step, err := validators.ParseQueryInt64(chi.URLParam(r, "step"), "step")
		if err != nil || step > checkoutsvc.StepPayment {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "step must be between 1 and 3"))
			return
		}

		var payload checkoutsvc.StepInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var blocking []string
		for _, fieldErr := range multierr.Errors(checkoutsvc.ValidateStep(int(step), payload)) {
			blocking = append(blocking, fieldErr.Error())
		}

		responses.WriteSuccess(w, map[string]any{
			"step":     step,
			"complete": len(blocking) == 0,
			"errors":   blocking,
		})
	}
}

// CouponList exposes the published coupons so the storefront can hint at
// available promotions.
func CouponList(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		coupons, err := svc.Coupons(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coupons)
	}
}
