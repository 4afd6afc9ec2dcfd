package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pluxolabs/pluxo-backend/internal/models"
)

// FindActiveSubscription возвращает последнюю действующую подписку пользователя:
// active = true и ends_at строго больше now, упорядочено по ends_at по убыванию,
// не более одной строки. Отсутствие действующей подписки не ошибка — (nil, nil).
func (s *Storage) FindActiveSubscription(ctx context.Context, userUID string, now time.Time) (*models.Subscription, error) {
	const op = "storage.FindActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_type, starts_at, ends_at, active, created_at
			  FROM subscriptions
			  WHERE user_uid = $1
			    AND active = true
				AND ends_at > $2
			  ORDER BY ends_at DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, userUID, now)

	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.PlanType, &sub.StartsAt,
		&sub.EndsAt, &sub.Active, &sub.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// GrantSubscription в одной транзакции деактивирует все действующие подписки
// пользователя и вставляет новую активную строку. Транзакция закрывает гонку
// "деактивировать, потом вставить": при сбое вставки деактивация откатывается
// и пользователь не остаётся без доступа.
func (s *Storage) GrantSubscription(ctx context.Context, userUID string, planType models.PlanType, startsAt, endsAt time.Time) (int, error) {
	const op = "storage.GrantSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deactivate := `UPDATE subscriptions
				   SET active = false
				   WHERE user_uid = $1
				     AND active = true`
	if _, err = tx.ExecContext(ctx, deactivate, userUID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	insert := `INSERT INTO subscriptions (user_uid, plan_type, starts_at, ends_at, active)
			   VALUES ($1, $2, $3, $4, true)
			   RETURNING id`
	var newID int
	if err = tx.QueryRowContext(ctx, insert, userUID, planType, startsAt, endsAt).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListSubscriptions возвращает историю подписок пользователя, новые первыми.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_type, starts_at, ends_at, active, created_at
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.UserUID, &item.PlanType, &item.StartsAt,
			&item.EndsAt, &item.Active, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
