package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

// Facet names accepted by the filter. Color is carried by the product's
// category names; the remaining attribute facets map onto the wine meta
// fields; petit_prix and haut_de_gamme are price-band predicates.
const (
	FacetColor         = "color"
	FacetCertification = "certification"
	FacetRegionPays    = "region__pays"
	FacetMillesime     = "millesime"
	FacetStyle         = "style"
	FacetVolume        = "volume"
	FacetAccordMets    = "accord_mets"
	FacetSansSulfites  = "sans_sulfites_"
	FacetPetitPrix     = "petit_prix"
	FacetHautDeGamme   = "haut_de_gamme"
)

// Price bands in EUR, evaluated on the sale price when the product is on sale.
var (
	petitPrixMax   = decimal.NewFromInt(8)
	hautDeGammeMin = decimal.NewFromInt(14)
	hautDeGammeMax = decimal.NewFromInt(20)
)

// Selection maps a facet name to its selected values. An empty or absent
// value set imposes no constraint on that facet.
type Selection map[string][]string

// WithLocked returns a copy of the selection with the given facet forced to
// the provided values. Per-color catalog pages use this instead of
// re-implementing the predicate set.
func (s Selection) WithLocked(facet string, values ...string) Selection {
	merged := make(Selection, len(s)+1)
	for key, vals := range s {
		merged[key] = vals
	}
	merged[facet] = values
	return merged
}

// Filter returns the products passing every facet carrying a non-empty
// selection: AND across facets, OR within a facet's values. The input order
// is preserved and the input slice is never mutated.
func Filter(products []woocommerce.Product, selection Selection) []woocommerce.Product {
	if len(selection) == 0 {
		return products
	}

	active := make(Selection, len(selection))
	for facet, values := range selection {
		if len(values) > 0 {
			active[facet] = values
		}
	}
	if len(active) == 0 {
		return products
	}

	filtered := make([]woocommerce.Product, 0, len(products))
	for _, product := range products {
		if matchesAll(product, active) {
			filtered = append(filtered, product)
		}
	}
	return filtered
}

func matchesAll(product woocommerce.Product, selection Selection) bool {
	for facet, values := range selection {
		if !matchesFacet(product, facet, values) {
			return false
		}
	}
	return true
}

func matchesFacet(product woocommerce.Product, facet string, values []string) bool {
	switch facet {
	case FacetColor:
		return anyValueMatches(values, product.Categories)
	case FacetAccordMets:
		return anyValueMatches(values, product.AccordMets)
	case FacetPetitPrix:
		return withinBand(effectivePrice(product), decimal.Zero, petitPrixMax)
	case FacetHautDeGamme:
		return withinBand(effectivePrice(product), hautDeGammeMin, hautDeGammeMax)
	default:
		return anyValueMatches(values, []string{attributeFor(product, facet)})
	}
}

// attributeFor resolves a facet to the product's single-valued attribute. A
// missing attribute yields the empty string and therefore never matches.
func attributeFor(product woocommerce.Product, facet string) string {
	switch facet {
	case FacetCertification:
		return product.Certification
	case FacetRegionPays:
		return product.RegionPays
	case FacetMillesime:
		return product.Millesime
	case FacetStyle:
		return product.Style
	case FacetVolume:
		return product.Volume
	case FacetSansSulfites:
		return product.SansSulfites
	}
	return ""
}

func anyValueMatches(selected []string, attributes []string) bool {
	for _, value := range selected {
		for _, attribute := range attributes {
			if equalsFold(value, attribute) {
				return true
			}
		}
	}
	return false
}

func equalsFold(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

func effectivePrice(product woocommerce.Product) decimal.Decimal {
	if product.OnSale && product.SalePrice != nil {
		return *product.SalePrice
	}
	return product.Price
}

func withinBand(price, min, max decimal.Decimal) bool {
	return price.GreaterThanOrEqual(min) && price.LessThanOrEqual(max)
}
