package models

import "time"

// Статусы платежа. Жизненный цикл: pending -> completed | failed.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment представляет запись об инициированной оплате доступа.
// Создаётся при оформлении заказа со статусом pending; подтверждение
// приходит через webhook провайдера и переводит платёж в completed,
// после чего пользователю выдаётся подписка.
type Payment struct {
	ID              int       `json:"id"`
	UserUID         string    `json:"user_id"`
	PlanType        PlanType  `json:"plan_type"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	DurationMinutes int       `json:"duration_minutes"`
	Provider        string    `json:"provider"`
	CreatedAt       time.Time `json:"created_at"`
}
