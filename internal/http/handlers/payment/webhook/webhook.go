// Package webhook реализует приём уведомлений платёжного провайдера.
// Подпись тела проверяется HMAC-SHA256 по общему секрету; успешный платёж
// переводится в completed и пользователю выдаётся подписка.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/pluxolabs/pluxo-backend/internal/http/response"
	"github.com/pluxolabs/pluxo-backend/internal/lib/sl"
	"github.com/pluxolabs/pluxo-backend/internal/services/checkout"
)

// Payload — уведомление провайдера о платеже.
type Payload struct {
	OrderID int    `json:"orderId"`
	Status  string `json:"status"`
}

// Service описывает завершение платежа.
type Service interface {
	CompleteFromWebhook(ctx context.Context, orderID int, providerStatus string) error
}

// Handler обрабатывает webhook платёжного провайдера.
type Handler struct {
	log           *slog.Logger
	checkout      Service
	webhookSecret string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, checkoutService Service, secret string) *Handler {
	return &Handler{
		log:           log,
		checkout:      checkoutService,
		webhookSecret: secret,
	}
}

func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// ServeHTTP godoc
// @Summary Webhook платёжного провайдера
// @Description Принимает уведомление о платеже, проверяет подпись и выдаёт подписку при успехе.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param X-Api-Signature header string true "HMAC-SHA256 подпись тела"
// @Success 200 {object} response.Response "Уведомление обработано"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело"
// @Failure 401 {object} response.ErrorResponse "Неверная подпись"
// @Failure 404 {object} response.ErrorResponse "Неизвестный заказ"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	defer func() {
		_ = r.Body.Close()
	}()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	}

	var payload Payload
	if err = json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err = h.checkout.CompleteFromWebhook(r.Context(), payload.OrderID, payload.Status); err != nil {
		if errors.Is(err, checkout.ErrUnknownOrder) {
			log.Info("unknown order in webhook", slog.Int("order_id", payload.OrderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("order not found"))
			return
		}
		log.Error("failed to process webhook", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process webhook"))
		return
	}

	log.Info("webhook processed successfully",
		slog.Int("order_id", payload.OrderID),
		slog.String("status", payload.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"received": true}))
}
