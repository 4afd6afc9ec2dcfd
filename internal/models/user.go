// Package models содержит доменные структуры: пользователей, подписки,
// платежи и производное представление прав доступа (entitlement),
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
// Хранит учётные данные и роль; сведения о подписке лежат отдельно
// в таблице subscriptions и никогда не кэшируются в профиле.
type User struct {
	UUID         string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или user
	CreatedAt    time.Time // Дата регистрации
}

// UserOverview строка административного списка пользователей:
// профиль, дополненный текущей действующей подпиской, если она есть.
type UserOverview struct {
	UUID         string        `json:"id"`
	Email        string        `json:"email"`
	Role         string        `json:"role"`
	CreatedAt    time.Time     `json:"created_at"`
	IsVip        bool          `json:"isVip"`
	PlanType     *PlanType     `json:"planType"`
	VipEndsAt    *time.Time    `json:"vipEndsAt,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
}
