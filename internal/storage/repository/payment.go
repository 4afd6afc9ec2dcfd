package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pluxolabs/pluxo-backend/internal/models"
)

// CreatePayment сохраняет новую запись о платеже и возвращает её ID.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_uid, plan_type, amount, currency, status,
			      duration_minutes, provider)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		p.UserUID, p.PlanType, p.Amount, p.Currency, p.Status,
		p.DurationMinutes, p.Provider).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPayment возвращает платёж по его ID; (nil, nil), если платёж не найден.
func (s *Storage) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_type, amount, currency, status,
			      duration_minutes, provider, created_at
			  FROM payments
			  WHERE id = $1`
	var p models.Payment
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&p.ID, &p.UserUID, &p.PlanType, &p.Amount, &p.Currency,
		&p.Status, &p.DurationMinutes, &p.Provider, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// UpdatePaymentStatus переводит платёж в новый статус только из pending.
// Возвращает количество изменённых строк: 0 означает, что платёж уже
// обработан или не существует — повторный webhook не выдаст доступ дважды.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, id int, status string) (int, error) {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $1
			  WHERE id = $2
			    AND status = $3`
	result, err := s.DB.ExecContext(ctx, query, status, id, models.PaymentStatusPending)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
