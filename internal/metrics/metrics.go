// Package metrics описывает счётчики prometheus, отдаваемые на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthorizationDenials счётчик отказов в доступе по причинам.
	AuthorizationDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pluxo_authorization_denials_total",
		Help: "Количество отказов в авторизации по причинам.",
	}, []string{"reason"})

	// PredictionsGenerated счётчик сгенерированных рядов предсказаний по типу.
	PredictionsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pluxo_predictions_generated_total",
		Help: "Количество сгенерированных рядов предсказаний по типу.",
	}, []string{"type"})

	// RateLimited счётчик запросов, отклонённых лимитером.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pluxo_rate_limited_total",
		Help: "Количество запросов, отклонённых по превышению лимита.",
	})
)
