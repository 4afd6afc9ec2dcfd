package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/pluxolabs/pluxo-backend/internal/http/response"
	"github.com/pluxolabs/pluxo-backend/internal/lib/sl"
	"github.com/pluxolabs/pluxo-backend/internal/metrics"
	"github.com/pluxolabs/pluxo-backend/internal/models"
	"github.com/pluxolabs/pluxo-backend/internal/services/entitlement"
)

// Resolver описывает сервис вычисления прав доступа.
type Resolver interface {
	Resolve(ctx context.Context, userUID string) (*models.Entitlement, error)
}

// RequireMiddleware вычисляет права пользователя и пропускает запрос дальше,
// только если entitlement.Authorize разрешает доступ с указанными требованиями.
// Вычисленные права кладутся в контекст запроса для обработчиков; сбой
// вычисления всегда означает отказ (HTTP 500), а не допуск по умолчанию.
// Обращение к хранилищу ограничено дедлайном storeTimeout: зависший коннект
// превращается в тот же отказ зависимости, что и ошибка чтения.
func RequireMiddleware(log *slog.Logger, resolver Resolver, storeTimeout time.Duration, requiredRole string, requiredPlan models.PlanType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				metrics.AuthorizationDenials.WithLabelValues(string(entitlement.ReasonAuthRequired)).Inc()
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(entitlement.ReasonAuthRequired.Message()))
				return
			}

			resolveCtx, cancel := context.WithTimeout(r.Context(), storeTimeout)
			defer cancel()

			ent, err := resolver.Resolve(resolveCtx, userUID)
			if err != nil {
				log.Error("failed to resolve entitlement", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			decision := entitlement.Authorize(ent, requiredRole, requiredPlan)
			if !decision.Allowed {
				log.Info("access denied",
					slog.String("user_uid", userUID),
					slog.String("reason", string(decision.Reason)))
				metrics.AuthorizationDenials.WithLabelValues(string(decision.Reason)).Inc()
				render.Status(r, decision.Reason.HTTPStatus())
				render.JSON(w, r, response.Error(decision.Reason.Message()))
				return
			}

			ctx := context.WithValue(r.Context(), EntitlementKey, ent)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
