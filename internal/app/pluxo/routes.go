package pluxo

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/pluxolabs/pluxo-backend/internal/cache"
	"github.com/pluxolabs/pluxo-backend/internal/config"
	"github.com/pluxolabs/pluxo-backend/internal/http/handlers/admin/grantaccess"
	"github.com/pluxolabs/pluxo-backend/internal/http/handlers/admin/userlist"
	"github.com/pluxolabs/pluxo-backend/internal/http/handlers/auth/login"
	"github.com/pluxolabs/pluxo-backend/internal/http/handlers/auth/register"
	"github.com/pluxolabs/pluxo-backend/internal/http/handlers/checkout/initiate"
	"github.com/pluxolabs/pluxo-backend/internal/http/handlers/health"
	"github.com/pluxolabs/pluxo-backend/internal/http/handlers/payment/webhook"
	"github.com/pluxolabs/pluxo-backend/internal/http/handlers/prediction/generate"
	"github.com/pluxolabs/pluxo-backend/internal/http/handlers/promo/validate"
	"github.com/pluxolabs/pluxo-backend/internal/http/handlers/user/me"
	"github.com/pluxolabs/pluxo-backend/internal/http/handlers/user/subscriptions"
	"github.com/pluxolabs/pluxo-backend/internal/http/middlewarectx"
	"github.com/pluxolabs/pluxo-backend/internal/models"
	authservice "github.com/pluxolabs/pluxo-backend/internal/services/auth"
	checkoutservice "github.com/pluxolabs/pluxo-backend/internal/services/checkout"
	entitlementservice "github.com/pluxolabs/pluxo-backend/internal/services/entitlement"
	grantservice "github.com/pluxolabs/pluxo-backend/internal/services/grant"
	predictionservice "github.com/pluxolabs/pluxo-backend/internal/services/prediction"
	pricingservice "github.com/pluxolabs/pluxo-backend/internal/services/pricing"
	"github.com/pluxolabs/pluxo-backend/internal/storage/repository"
)

// Services собирает зависимости маршрутов в одном месте.
type Services struct {
	Auth        *authservice.Service
	Entitlement *entitlementservice.Service
	Grant       *grantservice.Service
	Pricing     *pricingservice.Service
	Prediction  *predictionservice.Service
	Checkout    *checkoutservice.Service
	Storage     *repository.Storage
	Cache       *cache.Cache
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(middlewarectx.RateLimitMiddleware(logger))

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, s.Storage).ServeHTTP)
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)

		// Webhook провайдера проверяется подписью, а не JWT
		r.Post("/payments/webhook", webhook.New(logger, s.Checkout, cfg.WebhookSecret).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

			r.Post("/checkout/initiate", initiate.New(logger, s.Checkout).ServeHTTP)
			r.Get("/user/subscriptions", subscriptions.New(logger, s.Storage).ServeHTTP)

			// Права вычисляются заново на каждый запрос
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireMiddleware(logger, s.Entitlement, cfg.StoreTimeout, "", models.PlanNone))
				r.Get("/user/me", me.New(logger).ServeHTTP)
				r.Post("/promo/validate", validate.New(logger, s.Pricing).ServeHTTP)
			})

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.PerUserRateLimitMiddleware(logger, s.Cache, "prediction",
					int64(cfg.PredictionLimit), cfg.PredictionWindow))
				r.Use(middlewarectx.RequireMiddleware(logger, s.Entitlement, cfg.StoreTimeout, "", models.PlanNone))
				r.Post("/predictions/generate", generate.New(logger, s.Prediction).ServeHTTP)
			})

			// Административные маршруты
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireMiddleware(logger, s.Entitlement, cfg.StoreTimeout, models.RoleAdmin, models.PlanNone))
				r.Post("/admin/grant", grantaccess.New(logger, s.Grant).ServeHTTP)
				r.Get("/admin/users", userlist.New(logger, s.Storage, s.Cache).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
