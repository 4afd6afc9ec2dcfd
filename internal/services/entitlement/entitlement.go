// Package entitlement вычисляет права доступа пользователя и принимает
// решение о допуске к защищённой операции.
//
// Права (роль + действующий тариф) вычисляются заново на каждый запрос из
// профиля и последней действующей подписки; решение Authorize — чистая
// функция без ввода-вывода, единая для всех защищённых маршрутов вместо
// разрозненных проверок роли по обработчикам.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pluxolabs/pluxo-backend/internal/models"
)

// ErrDependencyUnavailable возвращается, когда хранилище недоступно.
// Сбой зависимости при вычислении прав всегда означает отказ в доступе,
// а не допуск по умолчанию.
var ErrDependencyUnavailable = errors.New("dependency unavailable")

// Repository описывает методы хранилища, нужные для вычисления прав.
type Repository interface {
	// GetProfile возвращает профиль по UID; (nil, nil), если профиль отсутствует.
	GetProfile(ctx context.Context, userUID string) (*models.User, error)
	// FindActiveSubscription возвращает последнюю действующую подписку;
	// (nil, nil), если действующей подписки нет.
	FindActiveSubscription(ctx context.Context, userUID string, now time.Time) (*models.Subscription, error)
}

// Service вычисляет entitlement по идентификатору пользователя.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Resolve вычисляет права доступа пользователя на текущий момент.
//
// Отсутствующий профиль не ошибка: роль по умолчанию user, тариф none —
// это терпимо к лагу между созданием учётной записи и провижинингом профиля.
// Ошибка хранилища, напротив, пробрасывается как ErrDependencyUnavailable:
// отсутствие строки и сбой чтения — принципиально разные исходы.
func (s *Service) Resolve(ctx context.Context, userUID string) (*models.Entitlement, error) {
	const op = "entitlement.Resolve"

	profile, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrDependencyUnavailable, err)
	}

	role := models.RoleUser
	email := ""
	if profile != nil {
		role = profile.Role
		email = profile.Email
	}

	sub, err := s.repo.FindActiveSubscription(ctx, userUID, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrDependencyUnavailable, err)
	}

	activePlan := models.PlanNone
	if sub != nil {
		activePlan = sub.PlanType
	}
	isAdmin := role == models.RoleAdmin

	return &models.Entitlement{
		UserUID:            userUID,
		Email:              email,
		Role:               role,
		IsAdmin:            isAdmin,
		ActivePlan:         activePlan,
		HasUnlimitedAccess: isAdmin || activePlan.Valid(),
		Subscription:       sub,
	}, nil
}

// DenyReason причина отказа в доступе. Наружу уходит только эта метка,
// без внутренних подробностей.
type DenyReason string

// Причины отказа.
const (
	ReasonAuthRequired           DenyReason = "AUTH_REQUIRED"
	ReasonAdminClearanceRequired DenyReason = "ADMIN_CLEARANCE_REQUIRED"
	ReasonActiveLicenseRequired  DenyReason = "ACTIVE_LICENSE_REQUIRED"
	ReasonEliteLicenseRequired   DenyReason = "ELITE_LICENSE_REQUIRED"
)

// Message возвращает текст отказа для клиента.
func (r DenyReason) Message() string {
	switch r {
	case ReasonAuthRequired:
		return "authentication required"
	case ReasonAdminClearanceRequired:
		return "admin clearance required"
	case ReasonActiveLicenseRequired:
		return "active license required"
	case ReasonEliteLicenseRequired:
		return "elite license required"
	default:
		return "access denied"
	}
}

// HTTPStatus возвращает HTTP-статус для причины отказа.
func (r DenyReason) HTTPStatus() int {
	if r == ReasonAuthRequired {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}

// Decision результат проверки доступа: допуск либо отказ с причиной.
type Decision struct {
	Allowed bool
	Reason  DenyReason // пустая при допуске
}

// Allow возвращает решение о допуске.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny возвращает отказ с указанной причиной.
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize принимает решение о допуске по вычисленным правам и требованиям
// маршрута. Чистая функция, порядок проверок фиксирован:
//
//  1. Админ проходит любые проверки роли и тарифа.
//  2. Несовпадение требуемой роли — AdminClearanceRequired.
//  3. Требуется тариф, а действующей подписки нет — ActiveLicenseRequired.
//  4. Требуется vip, а действует vup — EliteLicenseRequired. Обратное
//     верно: vip удовлетворяет требованию vup, элитный тариф включает
//     стандартный доступ.
func Authorize(ent *models.Entitlement, requiredRole string, requiredPlan models.PlanType) Decision {
	if ent == nil {
		return Deny(ReasonAuthRequired)
	}
	if ent.IsAdmin {
		return Allow()
	}
	if requiredRole != "" && ent.Role != requiredRole {
		return Deny(ReasonAdminClearanceRequired)
	}
	if requiredPlan.Valid() {
		if ent.ActivePlan == models.PlanNone {
			return Deny(ReasonActiveLicenseRequired)
		}
		if requiredPlan == models.PlanVip && ent.ActivePlan != models.PlanVip {
			return Deny(ReasonEliteLicenseRequired)
		}
	}
	return Allow()
}
