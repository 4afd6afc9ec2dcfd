// Package prediction генерирует ряды «предсказаний» для клиентского графика.
// Никакой модели за этим нет: сервис воспроизводит форму данных, которую
// ожидает клиент — длину ряда, диапазоны значений и пороги риска.
package prediction

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/pluxolabs/pluxo-backend/internal/models"
)

// Типы рядов.
const (
	TypeStandard = "standard"
	TypeElite    = "elite"
)

// Настройки риска для элитного ряда.
const (
	RiskSettingLow    = "low"
	RiskSettingMedium = "medium"
	RiskSettingHigh   = "high"
)

// Длины рядов: элитный короче и волатильнее, стандартный длиннее и ровнее.
const (
	eliteLength    = 20
	standardLength = 40
)

// Result ответ генератора.
type Result struct {
	Prediction []models.DataPoint        `json:"prediction"`
	Metadata   models.PredictionMetadata `json:"metadata"`
}

// Service генерирует ряды предсказаний.
type Service struct {
	now func() time.Time
}

// New создает новый Service.
func New() *Service {
	return &Service{now: time.Now}
}

// Generate строит ряд указанного типа. Любой тип, кроме elite, трактуется
// как standard. Значения ограничены снизу 1.00 и округлены до двух знаков;
// пороги риска: >2 — medium, >5 — high.
func (s *Service) Generate(typ, riskSetting string) Result {
	length := standardLength
	if typ == TypeElite {
		length = eliteLength
	}

	points := make([]models.DataPoint, 0, length)
	for i := 0; i < length; i++ {
		if typ == TypeElite {
			points = append(points, elitePoint(i, riskSetting))
		} else {
			points = append(points, standardPoint(i))
		}
	}

	return Result{
		Prediction: points,
		Metadata: models.PredictionMetadata{
			Timestamp: s.now().UTC().Format(time.RFC3339),
			Protocol:  "AES-256-GCM",
			Node:      fmt.Sprintf("NODE_%d", rand.Intn(9000)+1000),
		},
	}
}

func elitePoint(i int, riskSetting string) models.DataPoint {
	base, volatility := 1.0, 1.0
	switch riskSetting {
	case RiskSettingLow:
		base, volatility = 1.5, 0.5
	case RiskSettingHigh:
		base, volatility = 2.5, 3.0
	}

	val := math.Max(1.00, base+(rand.Float64()-0.4)*volatility*2)

	risk := models.RiskLow
	if val > 2 {
		risk = models.RiskMedium
	}
	if val > 5 {
		risk = models.RiskHigh
	}

	return models.DataPoint{
		Time:  i,
		Value: round2(val),
		Risk:  risk,
	}
}

func standardPoint(i int) models.DataPoint {
	val := math.Max(1.00, 1.2+rand.Float64()*3+math.Sin(float64(i)/4)*0.8)
	return models.DataPoint{
		Time:  i,
		Value: round2(val),
		Risk:  models.RiskLow,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
