package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vignerons/storefront-backend/api/responses"
	"github.com/vignerons/storefront-backend/api/validators"
	"github.com/vignerons/storefront-backend/internal/catalog"
	pkgerrors "github.com/vignerons/storefront-backend/pkg/errors"
	"github.com/vignerons/storefront-backend/pkg/logger"
)

// Facet query parameters accepted on the product list. Repeating a
// parameter ORs its values; distinct parameters AND together.
var facetParams = []string{
	catalog.FacetColor,
	catalog.FacetCertification,
	catalog.FacetRegionPays,
	catalog.FacetMillesime,
	catalog.FacetStyle,
	catalog.FacetVolume,
	catalog.FacetAccordMets,
	catalog.FacetSansSulfites,
	catalog.FacetPetitPrix,
	catalog.FacetHautDeGamme,
}

// ProductList serves the filtered, sorted catalog.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		selection := catalog.Selection{}
		query := r.URL.Query()
		for _, facet := range facetParams {
			values := query[facet]
			if len(values) == 0 {
				continue
			}
			var cleaned []string
			for _, v := range values {
				for _, part := range strings.Split(v, ",") {
					if part = strings.TrimSpace(part); part != "" {
						cleaned = append(cleaned, part)
					}
				}
			}
			if len(cleaned) > 0 {
				selection[facet] = cleaned
			}
		}

		sortKey := strings.TrimSpace(query.Get("sort"))

		// limit=0 returns the whole catalog; the UI pages client-side.
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListProducts(r.Context(), selection, sortKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		total := len(products)
		if limit > 0 && limit < total {
			products = products[:limit]
		}

		responses.WriteSuccess(w, map[string]any{
			"products": products,
			"count":    total,
		})
	}
}

// ProductDetail serves a single product by id.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParseQueryInt64(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
