package models

// RiskLevel метка риска для точки предсказания.
type RiskLevel string

// Уровни риска.
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// DataPoint одна точка сгенерированного ряда предсказаний.
// Value округляется до двух знаков после запятой.
type DataPoint struct {
	Time  int       `json:"time"`
	Value float64   `json:"value"`
	Risk  RiskLevel `json:"risk"`
}

// PredictionMetadata сопроводительные данные ответа генератора.
type PredictionMetadata struct {
	Timestamp string `json:"timestamp"`
	Protocol  string `json:"protocol"`
	Node      string `json:"node"`
}
