package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teravoo/teravoo-backend/api/controllers"
	"github.com/teravoo/teravoo-backend/api/middleware"
	authsvc "github.com/teravoo/teravoo-backend/internal/auth"
	ordersvc "github.com/teravoo/teravoo-backend/internal/orders"
	pricingsvc "github.com/teravoo/teravoo-backend/internal/pricing"
	producersvc "github.com/teravoo/teravoo-backend/internal/producers"
	productsvc "github.com/teravoo/teravoo-backend/internal/products"
	sourcingsvc "github.com/teravoo/teravoo-backend/internal/sourcing"
	tracesvc "github.com/teravoo/teravoo-backend/internal/traceability"
	"github.com/teravoo/teravoo-backend/pkg/config"
	"github.com/teravoo/teravoo-backend/pkg/db"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	"github.com/teravoo/teravoo-backend/pkg/logger"
	"github.com/teravoo/teravoo-backend/pkg/metrics"
	pkgredis "github.com/teravoo/teravoo-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	authService authsvc.Service,
	producerService producersvc.Service,
	productService productsvc.Service,
	pricingService pricingsvc.Service,
	sourcingService sourcingsvc.Service,
	orderService ordersvc.Service,
	traceService tracesvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	requestCodePolicy := middleware.NewAuthRateLimitPolicy(
		"request-code",
		cfg.AuthRateLimit.RequestCodeWindow,
		cfg.AuthRateLimit.RequestCodeIPLimit,
		cfg.AuthRateLimit.RequestCodePhoneLimit,
	)
	verifyCodePolicy := middleware.NewAuthRateLimitPolicy(
		"verify-code",
		cfg.AuthRateLimit.VerifyCodeWindow,
		cfg.AuthRateLimit.VerifyCodeIPLimit,
		cfg.AuthRateLimit.VerifyCodePhoneLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(requestCodePolicy, redisClient, logg)).
			Post("/request-code", controllers.AuthRequestCode(authService, logg))
		r.With(middleware.AuthRateLimit(verifyCodePolicy, redisClient, logg)).
			Post("/verify-code", controllers.AuthVerifyCode(authService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productService, logg))
			r.Get("/{productId}", controllers.ProductDetail(productService, logg))
			r.Get("/{productId}/pricing/effective-tiers", controllers.EffectiveTiers(pricingService, logg))
			r.Get("/{productId}/pricing/calculate", controllers.CalculatePrice(pricingService, logg))
			r.Get("/{productId}/pricing/history", controllers.PriceHistory(pricingService, logg))
			r.Get("/{productId}/pricing/compare", controllers.ComparePrice(pricingService, logg))
			r.Get("/{productId}/traceability", controllers.TraceEventList(traceService, logg))
		})

		r.Route("/v1/producers", func(r chi.Router) {
			r.Get("/", controllers.ProducerList(producerService, logg))
			r.Get("/{producerId}", controllers.ProducerDetail(producerService, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(orderService, logg))
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Get("/{orderId}", controllers.OrderGet(orderService, logg))
		})

		r.Route("/v1/sourcing/requests", func(r chi.Router) {
			r.Post("/", controllers.SourcingCreateRequest(sourcingService, logg))
			r.Get("/", controllers.SourcingListOpen(sourcingService, logg))
			r.Get("/mine", controllers.SourcingListMine(sourcingService, logg))
			r.Get("/{requestId}", controllers.SourcingGetRequest(sourcingService, logg))
			r.Post("/{requestId}/close", controllers.SourcingCloseRequest(sourcingService, logg))
			r.Put("/{requestId}/logistics", controllers.SourcingUpdateLogistics(sourcingService, logg))
			r.Get("/{requestId}/offers", controllers.SourcingListOffers(sourcingService, logg))
			r.Post("/{requestId}/offers/{offerId}/decision", controllers.SourcingDecideOffer(sourcingService, logg))
		})

		r.Route("/v1/producer", func(r chi.Router) {
			r.Use(middleware.RequireProducer(logg))

			r.Get("/me", controllers.ProducerMyProfile(producerService, logg))
			r.Put("/me", controllers.ProducerUpdateProfile(producerService, logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.ProducerCreateProduct(productService, logg))
				r.Patch("/{productId}", controllers.ProducerUpdateProduct(productService, logg))
				r.Delete("/{productId}", controllers.ProducerDeleteProduct(productService, logg))
				r.Post("/{productId}/publish", controllers.ProducerPublishProduct(productService, logg))
				r.Put("/{productId}/pricing/tiers", controllers.ProducerSetTiers(pricingService, productService, logg))
				r.Delete("/{productId}/pricing/tiers", controllers.ProducerDeleteTiers(pricingService, productService, logg))
				r.Put("/{productId}/pricing/mode", controllers.ProducerSetPricingMode(pricingService, productService, logg))
				r.Post("/{productId}/traceability", controllers.ProducerAppendTraceEvent(traceService, logg))
			})

			r.Route("/pricing-templates", func(r chi.Router) {
				r.Post("/", controllers.ProducerCreateTemplate(pricingService, logg))
				r.Get("/", controllers.ProducerListTemplates(pricingService, logg))
				r.Patch("/{templateId}", controllers.ProducerUpdateTemplate(pricingService, logg))
				r.Delete("/{templateId}", controllers.ProducerDeleteTemplate(pricingService, logg))
			})

			r.Route("/sourcing/requests/{requestId}", func(r chi.Router) {
				r.Post("/offers", controllers.ProducerSubmitOffer(sourcingService, logg))
				r.Post("/price-suggestion", controllers.ProducerSuggestPrice(pricingService, logg))
			})
		})

		r.Route("/admin/v1/producers", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))
			r.Post("/", controllers.AdminCreateProducer(producerService, logg))
		})
	})

	return r
}
