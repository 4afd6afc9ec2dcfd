// Package pluxo собирает приложение: хранилище, кеш, сервисы,
// HTTP-сервер с маршрутами и корректное завершение по сигналу.
package pluxo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/pluxolabs/pluxo-backend/internal/cache"
	"github.com/pluxolabs/pluxo-backend/internal/config"
	"github.com/pluxolabs/pluxo-backend/internal/lib/jwt"
	"github.com/pluxolabs/pluxo-backend/internal/migrations"
	authservice "github.com/pluxolabs/pluxo-backend/internal/services/auth"
	checkoutservice "github.com/pluxolabs/pluxo-backend/internal/services/checkout"
	entitlementservice "github.com/pluxolabs/pluxo-backend/internal/services/entitlement"
	grantservice "github.com/pluxolabs/pluxo-backend/internal/services/grant"
	predictionservice "github.com/pluxolabs/pluxo-backend/internal/services/prediction"
	pricingservice "github.com/pluxolabs/pluxo-backend/internal/services/pricing"
	"github.com/pluxolabs/pluxo-backend/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New инициализирует зависимости и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	entitlementService := entitlementservice.New(db, logger)
	grantService := grantservice.New(db, cacheRedis, logger)
	pricingService := pricingservice.New(cfg.Plans, cfg.PromoCodes)
	predictionService := predictionservice.New()
	checkoutService := checkoutservice.New(db, pricingService, grantService, logger,
		cfg.Currency, cfg.Provider, cfg.CheckoutURL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, &Services{
		Auth:        authService,
		Entitlement: entitlementService,
		Grant:       grantService,
		Pricing:     pricingService,
		Prediction:  predictionService,
		Checkout:    checkoutService,
		Storage:     db,
		Cache:       cacheRedis,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до ошибки либо отмены контекста,
// после чего сервер останавливается с таймаутом.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		_ = a.cache.Db.Close()
		return err
	}
}
