package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vignerons/storefront-backend/api/middleware"
	"github.com/vignerons/storefront-backend/api/responses"
	"github.com/vignerons/storefront-backend/api/validators"
	cartsvc "github.com/vignerons/storefront-backend/internal/cart"
	pkgerrors "github.com/vignerons/storefront-backend/pkg/errors"
	"github.com/vignerons/storefront-backend/pkg/logger"
	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

type addItemRequest struct {
	ProductID   string            `json:"product_id" validate:"required"`
	Name        string            `json:"name" validate:"required"`
	Price       decimal.Decimal   `json:"price" validate:"required"`
	Image       string            `json:"image,omitempty"`
	Categories  []string          `json:"categories,omitempty"`
	Quantity    int               `json:"quantity" validate:"required,min=1"`
	VariationID string            `json:"variation_id,omitempty"`
	Variation   map[string]string `json:"variation,omitempty"`
	VendorID    string            `json:"vendor_id,omitempty"`
	OnSale      bool              `json:"on_sale,omitempty"`
}

type updateQuantityRequest struct {
	VariationID string `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity"`
}

// CartFetch returns the current cart summary for the request's cart token.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		summary, err := svc.GetSummary(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// CartAddItem merges a product into the cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.AddItem(r.Context(), middleware.CartTokenFromContext(r.Context()), cartsvc.AddItemInput{
			ProductID:   payload.ProductID,
			Name:        payload.Name,
			Price:       payload.Price,
			Image:       payload.Image,
			Categories:  payload.Categories,
			Quantity:    payload.Quantity,
			VariationID: payload.VariationID,
			Variation:   payload.Variation,
			VendorID:    payload.VendorID,
			OnSale:      payload.OnSale,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

// CartUpdateItem sets the quantity on the exact (product, variation) line;
// zero or below removes it.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.UpdateQuantity(r.Context(), middleware.CartTokenFromContext(r.Context()), productID, payload.VariationID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// CartRemoveItem deletes a line. The variation id rides the query string
// since DELETE carries no body.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID := chi.URLParam(r, "productId")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}
		variationID := r.URL.Query().Get("variation_id")

		summary, err := svc.RemoveItem(r.Context(), middleware.CartTokenFromContext(r.Context()), productID, variationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// remoteCartReader proxies the commerce backend's own view of the cart
// session. It is distinct from the local cart store.
type remoteCartReader interface {
	GetStoreCart(ctx context.Context, token string) (*woocommerce.StoreCart, error)
}

// CartRemote returns the backend-side cart session for the request's cart
// token, for reconciling the local store against the commerce backend.
func CartRemote(client remoteCartReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "commerce client unavailable"))
			return
		}

		remote, err := client.GetStoreCart(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, remote)
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		if err := svc.Clear(r.Context(), middleware.CartTokenFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
