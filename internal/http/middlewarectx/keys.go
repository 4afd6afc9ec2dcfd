// Package middlewarectx содержит HTTP middleware для проверки JWT,
// вычисления прав доступа и ограничения частоты запросов, а также ключи
// контекста, через которые обработчики получают данные аутентификации.
package middlewarectx

import (
	"context"

	"github.com/pluxolabs/pluxo-backend/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для uid пользователя в контексте
	UserUID Key = "user_uid"
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// EntitlementKey — ключ для вычисленных прав доступа в контексте
	EntitlementKey Key = "entitlement"
)

// EntitlementFromContext возвращает права доступа, вычисленные middleware.
func EntitlementFromContext(ctx context.Context) (*models.Entitlement, bool) {
	ent, ok := ctx.Value(EntitlementKey).(*models.Entitlement)
	return ent, ok
}
