package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vignerons/storefront-backend/api/controllers"
	"github.com/vignerons/storefront-backend/api/middleware"
	authsvc "github.com/vignerons/storefront-backend/internal/auth"
	cartsvc "github.com/vignerons/storefront-backend/internal/cart"
	"github.com/vignerons/storefront-backend/internal/catalog"
	checkoutsvc "github.com/vignerons/storefront-backend/internal/checkout"
	ordersvc "github.com/vignerons/storefront-backend/internal/orders"
	vendorsvc "github.com/vignerons/storefront-backend/internal/vendors"
	"github.com/vignerons/storefront-backend/pkg/config"
	"github.com/vignerons/storefront-backend/pkg/db"
	"github.com/vignerons/storefront-backend/pkg/logger"
	"github.com/vignerons/storefront-backend/pkg/metrics"
	"github.com/vignerons/storefront-backend/pkg/redis"
	"github.com/vignerons/storefront-backend/pkg/stripe"
	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

// Services groups everything the router wires into handlers.
type Services struct {
	Catalog  catalog.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Vendors  vendorsvc.Service
	Orders   ordersvc.Service
	Auth     authsvc.Service
	Stripe   *stripe.Client
	Commerce *woocommerce.Client
	Limiter  middleware.RateLimiter
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	httpMetrics := metrics.NewHTTPMetrics(registry)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(svcs.Catalog, logg))
		})

		r.Get("/coupons", controllers.CouponList(svcs.Checkout, logg))

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/{vendorId}", controllers.VendorDetail(svcs.Vendors, logg))
			r.Get("/{vendorId}/products", controllers.VendorProducts(svcs.Vendors, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.CartToken(logg),
				middleware.OptionalAuth(cfg.JWT, logg),
			)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(svcs.Cart, logg))
				r.Post("/", controllers.CartAddItem(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
				r.Get("/remote", controllers.CartRemote(svcs.Commerce, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(svcs.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(svcs.Cart, logg))
			})

			r.Post("/checkout/quote", controllers.CheckoutQuote(svcs.Checkout, logg))
			r.Post("/checkout/steps/{step}", controllers.CheckoutStep(logg))
			r.Post("/checkout", controllers.CheckoutSubmit(svcs.Checkout, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(svcs.Limiter, "auth", cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow, logg))
			r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
			r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		})

		r.Post("/payment/intent", controllers.PaymentIntent(svcs.Stripe, logg))
	})

	return r
}
