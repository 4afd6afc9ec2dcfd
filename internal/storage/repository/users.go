package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pluxolabs/pluxo-backend/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (uid, email, username, password_hash, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid`
	if err := s.DB.QueryRowContext(ctx, query,
		user.UUID, user.Email, user.Username, user.PasswordHash, user.Role).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)

	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetProfile возвращает профиль пользователя по его UID.
// Отсутствие строки не считается ошибкой: возвращается (nil, nil),
// чтобы вызывающая сторона могла отличить пропавший профиль от сбоя базы.
func (s *Storage) GetProfile(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsersWithSubscriptions возвращает всех пользователей с их действующими
// подписками для административной панели. Подписка подтягивается одним
// LEFT JOIN LATERAL, чтобы не делать по запросу на пользователя.
func (s *Storage) ListUsersWithSubscriptions(ctx context.Context, now time.Time, limit, offset int) ([]*models.UserOverview, error) {
	const op = "storage.ListUsersWithSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.email, u.role, u.created_at,
			      v.id, v.plan_type, v.starts_at, v.ends_at, v.active, v.created_at
			  FROM users u
			  LEFT JOIN LATERAL (
			      SELECT id, plan_type, starts_at, ends_at, active, created_at
				  FROM subscriptions
				  WHERE user_uid = u.uid
				    AND active = true
					AND ends_at > $1
				  ORDER BY ends_at DESC
				  LIMIT 1
			  ) v ON true
			  ORDER BY u.created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, now, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserOverview
	for rows.Next() {
		var item models.UserOverview
		var subID sql.NullInt64
		var planType sql.NullString
		var startsAt, endsAt, subCreatedAt sql.NullTime
		var active sql.NullBool

		if err := rows.Scan(&item.UUID, &item.Email, &item.Role, &item.CreatedAt,
			&subID, &planType, &startsAt, &endsAt, &active, &subCreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if subID.Valid {
			plan := models.PlanType(planType.String)
			item.IsVip = true
			item.PlanType = &plan
			item.VipEndsAt = &endsAt.Time
			item.Subscription = &models.Subscription{
				ID:        int(subID.Int64),
				UserUID:   item.UUID,
				PlanType:  plan,
				StartsAt:  startsAt.Time,
				EndsAt:    endsAt.Time,
				Active:    active.Bool,
				CreatedAt: subCreatedAt.Time,
			}
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
