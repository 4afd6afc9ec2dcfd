// Package checkout реализует оформление заказа на платный доступ:
// расчёт стоимости, создание платежа в статусе pending и обработку
// подтверждения от платёжного провайдера, которое выдаёт подписку.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pluxolabs/pluxo-backend/internal/models"
	"github.com/pluxolabs/pluxo-backend/internal/services/pricing"
)

// ErrUnknownOrder возвращается, когда webhook ссылается на несуществующий платёж.
var ErrUnknownOrder = errors.New("unknown order")

// Статусы провайдера, трактуемые как успешная оплата.
var successStatuses = map[string]bool{
	"completed": true,
	"finished":  true,
}

// Repository описывает методы хранилища платежей.
type Repository interface {
	CreatePayment(ctx context.Context, p models.Payment) (int, error)
	// GetPayment возвращает платёж; (nil, nil), если платёж не найден.
	GetPayment(ctx context.Context, id int) (*models.Payment, error)
	// UpdatePaymentStatus переводит платёж из pending; 0 изменённых строк
	// означает, что платёж уже обработан.
	UpdatePaymentStatus(ctx context.Context, id int, status string) (int, error)
}

// Pricer описывает расчёт стоимости заказа.
type Pricer interface {
	PriceFor(planID, timeOption, promoCode string) (pricing.Quote, error)
}

// Granter описывает выдачу подписки после подтверждения оплаты.
type Granter interface {
	Grant(ctx context.Context, userUID string, planType models.PlanType, amount int, unit string) (int, error)
}

// Order результат инициализации заказа.
type Order struct {
	OrderID     int     `json:"orderId"`
	Amount      float64 `json:"amount"`
	CheckoutURL string  `json:"checkoutUrl"`
}

// Service реализует оформление и подтверждение заказов.
type Service struct {
	repo        Repository
	pricer      Pricer
	granter     Granter
	log         *slog.Logger
	currency    string
	provider    string
	checkoutURL string
}

// New создает новый Service.
func New(repo Repository, pricer Pricer, granter Granter, log *slog.Logger, currency, provider, checkoutURL string) *Service {
	return &Service{
		repo:        repo,
		pricer:      pricer,
		granter:     granter,
		log:         log,
		currency:    currency,
		provider:    provider,
		checkoutURL: checkoutURL,
	}
}

// Initiate считает стоимость заказа, создаёт платёж в статусе pending и
// возвращает ссылку на оплату у провайдера. Подписка на этом шаге не
// выдаётся: доступ появляется только после подтверждения оплаты.
func (s *Service) Initiate(ctx context.Context, userUID, planID, timeOption, promoCode string) (*Order, error) {
	const op = "checkout.Initiate"

	quote, err := s.pricer.PriceFor(planID, timeOption, promoCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payment := models.Payment{
		UserUID:         userUID,
		PlanType:        quote.PlanType,
		Amount:          quote.Amount,
		Currency:        s.currency,
		Status:          models.PaymentStatusPending,
		DurationMinutes: quote.DurationMinutes,
		Provider:        s.provider,
	}
	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("checkout initiated",
		slog.String("user_uid", userUID),
		slog.String("plan_id", planID),
		slog.Int("order_id", id))

	return &Order{
		OrderID:     id,
		Amount:      quote.Amount,
		CheckoutURL: fmt.Sprintf("%s?orderId=%d", s.checkoutURL, id),
	}, nil
}

// CompleteFromWebhook обрабатывает уведомление провайдера о платеже.
// Успешный статус переводит платёж в completed и выдаёт подписку на
// оплаченный срок; любой другой помечает платёж failed. Повторное
// уведомление по уже обработанному платежу ничего не меняет.
func (s *Service) CompleteFromWebhook(ctx context.Context, orderID int, providerStatus string) error {
	const op = "checkout.CompleteFromWebhook"

	payment, err := s.repo.GetPayment(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if payment == nil {
		return fmt.Errorf("%s: %w: %d", op, ErrUnknownOrder, orderID)
	}

	if !successStatuses[providerStatus] {
		if _, err = s.repo.UpdatePaymentStatus(ctx, orderID, models.PaymentStatusFailed); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("payment failed",
			slog.Int("order_id", orderID),
			slog.String("provider_status", providerStatus))
		return nil
	}

	rowsAffected, err := s.repo.UpdatePaymentStatus(ctx, orderID, models.PaymentStatusCompleted)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		s.log.Info("payment already processed, skipping grant", slog.Int("order_id", orderID))
		return nil
	}

	if _, err = s.granter.Grant(ctx, payment.UserUID, payment.PlanType, payment.DurationMinutes, "minutes"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("payment completed, subscription granted",
		slog.Int("order_id", orderID),
		slog.String("user_uid", payment.UserUID),
		slog.String("plan_type", string(payment.PlanType)))
	return nil
}
