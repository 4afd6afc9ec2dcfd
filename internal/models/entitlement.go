package models

// Entitlement — производное, нигде не хранимое представление прав доступа
// пользователя на момент запроса. Вычисляется заново для каждого
// защищённого вызова из профиля и последней действующей подписки.
type Entitlement struct {
	UserUID    string   `json:"user_id"`
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	IsAdmin    bool     `json:"is_admin"`
	ActivePlan PlanType `json:"active_plan"`
	// HasUnlimitedAccess: admin или любой платный тариф даёт как минимум
	// безлимитный стандартный доступ.
	HasUnlimitedAccess bool `json:"has_unlimited_access"`
	// Subscription — действующая подписка, если есть; nil для none.
	Subscription *Subscription `json:"subscription,omitempty"`
}
