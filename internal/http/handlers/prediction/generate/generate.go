// Package generate реализует HTTP-обработчик генерации рядов предсказаний.
//
// Стандартный ряд доступен любому аутентифицированному пользователю,
// элитный требует тарифа vip; проверка выполняется по правам из контекста,
// вычисленным middleware.
package generate

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/pluxolabs/pluxo-backend/internal/http/middlewarectx"
	"github.com/pluxolabs/pluxo-backend/internal/http/response"
	"github.com/pluxolabs/pluxo-backend/internal/lib/sl"
	"github.com/pluxolabs/pluxo-backend/internal/metrics"
	"github.com/pluxolabs/pluxo-backend/internal/models"
	"github.com/pluxolabs/pluxo-backend/internal/services/entitlement"
	"github.com/pluxolabs/pluxo-backend/internal/services/prediction"
)

// Request — параметры генерации ряда. Любой тип, кроме elite, трактуется
// генератором как standard, поэтому значение не ограничивается списком.
type Request struct {
	Type        string `json:"type" validate:"required"`
	RiskSetting string `json:"riskSetting"`
}

// Service описывает генератор рядов предсказаний.
type Service interface {
	Generate(typ, riskSetting string) prediction.Result
}

// Handler обрабатывает запросы генерации предсказаний.
type Handler struct {
	log        *slog.Logger
	prediction Service
	validate   *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, predictionService Service) *Handler {
	return &Handler{
		log:        log,
		prediction: predictionService,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Генерация ряда предсказаний
// @Description Возвращает ряд точек предсказания. Тип elite требует тарифа vip.
// @Tags Predictions
// @Accept  json
// @Produce  json
// @Param request body Request true "Тип ряда и настройка риска"
// @Success 200 {object} map[string]any "Сгенерированный ряд"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Недостаточный тариф"
// @Failure 429 {object} response.ErrorResponse "Превышен лимит запросов"
// @Router /predictions/generate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.prediction.generate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ent, ok := middlewarectx.EntitlementFromContext(r.Context())
	if !ok {
		log.Error("entitlement missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	// тариф проверяется только для элитного ряда
	if req.Type == prediction.TypeElite {
		if decision := entitlement.Authorize(ent, "", models.PlanVip); !decision.Allowed {
			log.Info("elite prediction denied",
				slog.String("user_uid", ent.UserUID),
				slog.String("reason", string(decision.Reason)))
			metrics.AuthorizationDenials.WithLabelValues(string(decision.Reason)).Inc()
			w.WriteHeader(decision.Reason.HTTPStatus())
			render.JSON(w, r, response.Error(decision.Reason.Message()))
			return
		}
	}

	result := h.prediction.Generate(req.Type, req.RiskSetting)
	metrics.PredictionsGenerated.WithLabelValues(req.Type).Inc()

	log.Info("prediction generated",
		slog.String("user_uid", ent.UserUID),
		slog.String("type", req.Type),
		slog.Int("points", len(result.Prediction)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"prediction": result.Prediction,
		"metadata":   result.Metadata,
	}))
}
