// Package grant реализует административную выдачу платного доступа:
// вычисление срока действия и транзакционную замену действующей подписки.
package grant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pluxolabs/pluxo-backend/internal/lib/sl"
	"github.com/pluxolabs/pluxo-backend/internal/lib/timeopt"
	"github.com/pluxolabs/pluxo-backend/internal/models"
)

// UsersCacheKey ключ кеша административного списка пользователей,
// сбрасываемый после каждой выдачи.
const UsersCacheKey = "admin:users"

// ErrUnknownUser возвращается при попытке выдать доступ несуществующему пользователю.
var ErrUnknownUser = errors.New("unknown user")

// ErrInvalidPlan возвращается при неизвестном типе тарифа.
var ErrInvalidPlan = errors.New("invalid plan type")

// Repository описывает методы хранилища для выдачи доступа.
type Repository interface {
	// GetProfile возвращает профиль по UID; (nil, nil), если профиль отсутствует.
	GetProfile(ctx context.Context, userUID string) (*models.User, error)
	// GrantSubscription атомарно деактивирует старые подписки и вставляет новую.
	GrantSubscription(ctx context.Context, userUID string, planType models.PlanType, startsAt, endsAt time.Time) (int, error)
}

// Cache описывает метод инвалидации кеша.
type Cache interface {
	Invalidate(key string) error
}

// Service реализует выдачу подписок.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// New создает новый Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Grant выдаёт пользователю подписку planType на срок amount единиц unit
// (minutes, hours, days) начиная с текущего момента и возвращает ID новой
// строки. После успешной выдачи Resolve для этого пользователя видит ровно
// новый тариф и никакой другой.
func (s *Service) Grant(ctx context.Context, userUID string, planType models.PlanType, amount int, unit string) (int, error) {
	const op = "grant.Grant"

	if !planType.Valid() {
		return 0, fmt.Errorf("%s: %w: %q", op, ErrInvalidPlan, planType)
	}
	duration, err := timeopt.GrantDuration(amount, unit)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	profile, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if profile == nil {
		return 0, fmt.Errorf("%s: %w: %s", op, ErrUnknownUser, userUID)
	}

	startsAt := s.now()
	endsAt := startsAt.Add(duration)

	id, err := s.repo.GrantSubscription(ctx, userUID, planType, startsAt, endsAt)
	if err != nil {
		// транзакция откатилась целиком, прежняя подписка осталась
		// действующей; вызов можно безопасно повторить
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("granted subscription",
		slog.String("user_uid", userUID),
		slog.String("plan_type", string(planType)),
		slog.Time("ends_at", endsAt),
		slog.Int("id", id))

	if err := s.cache.Invalidate(UsersCacheKey); err != nil {
		s.log.Warn("failed to invalidate users cache", sl.Err(err))
	}

	return id, nil
}
