package middlewarectx

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/pluxolabs/pluxo-backend/internal/http/response"
	"github.com/pluxolabs/pluxo-backend/internal/lib/sl"
	"github.com/pluxolabs/pluxo-backend/internal/metrics"
)

var limiter = rate.NewLimiter(50, 100)

// RateLimitMiddleware грубый общий лимитер на весь сервер.
func RateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests")
				metrics.RateLimited.Inc()
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WindowLimiter описывает счётчик фиксированного окна.
type WindowLimiter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// PerUserRateLimitMiddleware ограничивает число запросов отдельного
// пользователя в фиксированном окне. Счётчик живёт в redis и потому общий
// для всех экземпляров сервера. При недоступности redis запрос пропускается:
// лимитер защищает от злоупотребления, а не выполняет функции доступа.
func PerUserRateLimitMiddleware(log *slog.Logger, windows WindowLimiter, name string, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.PerUserRateLimitMiddleware"

			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			key := fmt.Sprintf("ratelimit:%s:%s", name, userUID)
			count, err := windows.IncrWindow(r.Context(), key, window)
			if err != nil {
				log.Error("rate limit counter unavailable", slog.String("op", op), sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if count > limit {
				log.Info("rate limit exceeded",
					slog.String("user_uid", userUID),
					slog.Int64("count", count))
				metrics.RateLimited.Inc()
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
