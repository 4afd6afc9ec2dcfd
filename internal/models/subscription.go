package models

import "time"

// PlanType уровень платного доступа.
type PlanType string

// Уровни платного доступа. PlanVip включает в себя доступ уровня PlanVup.
const (
	PlanNone PlanType = "none"
	PlanVup  PlanType = "vup"
	PlanVip  PlanType = "vip"
)

// Valid сообщает, является ли значение одним из платных тарифов.
func (p PlanType) Valid() bool {
	return p == PlanVup || p == PlanVip
}

// Subscription представляет ограниченную по времени выдачу платного доступа.
// У пользователя может быть несколько строк (история); активной в любой
// момент времени может быть не более одной, что закреплено частичным
// уникальным индексом в базе.
type Subscription struct {
	ID        int       `json:"id"`
	UserUID   string    `json:"user_id"`
	PlanType  PlanType  `json:"plan_type"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// EffectivelyActive сообщает, действует ли подписка на момент now.
// Граница строгая: при now == EndsAt подписка уже не действует.
func (s *Subscription) EffectivelyActive(now time.Time) bool {
	return s.Active && s.EndsAt.After(now)
}
