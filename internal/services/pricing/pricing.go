// Package pricing считает стоимость заказа по прайс-листу из конфига
// и применяет промокоды. Таблицы передаются при создании сервиса, а не
// зашиваются в код.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pluxolabs/pluxo-backend/internal/lib/timeopt"
	"github.com/pluxolabs/pluxo-backend/internal/models"
)

// ErrInvalidPlanOption возвращается при неизвестной комбинации плана и
// варианта длительности. Промах по таблице — ошибка, а не нулевая цена.
var ErrInvalidPlanOption = errors.New("invalid plan or duration option")

// Идентификаторы продаваемых планов.
const (
	PlanIDVup   = "vip_vup"
	PlanIDElite = "vip_elite"
)

// Quote результат расчёта стоимости заказа.
type Quote struct {
	Amount          float64
	DurationMinutes int
	PlanType        models.PlanType
	Discount        float64 // применённая скидка в процентах
}

// Service хранит прайс-лист и таблицу промокодов.
type Service struct {
	plans  map[string]map[string]float64
	promos map[string]float64 // ключи нормализованы к верхнему регистру
}

// New создает Service из таблиц конфига. Ключи промокодов нормализуются,
// сопоставление при расчёте регистронезависимое.
func New(plans map[string]map[string]float64, promos map[string]float64) *Service {
	normalized := make(map[string]float64, len(promos))
	for code, discount := range promos {
		normalized[strings.ToUpper(code)] = discount
	}
	return &Service{
		plans:  plans,
		promos: normalized,
	}
}

// LookupPromo возвращает скидку в процентах для промокода.
// Регистр не учитывается. Второе значение false, если код неизвестен.
func (s *Service) LookupPromo(code string) (float64, bool) {
	discount, ok := s.promos[strings.ToUpper(code)]
	return discount, ok
}

// PlanTypeForID переводит продаваемый план в тип подписки.
func PlanTypeForID(planID string) (models.PlanType, error) {
	switch planID {
	case PlanIDVup:
		return models.PlanVup, nil
	case PlanIDElite:
		return models.PlanVip, nil
	default:
		return models.PlanNone, fmt.Errorf("%w: unknown plan %q", ErrInvalidPlanOption, planID)
	}
}

// PriceFor считает стоимость и длительность доступа для комбинации плана,
// варианта длительности и, опционально, промокода.
//
// Неизвестная комбинация (planID, timeOption) — ErrInvalidPlanOption.
// Неизвестный промокод на этом этапе не ошибка: применяется скидка 0%,
// отдельный эндпоинт валидации решает, принят ли код.
func (s *Service) PriceFor(planID, timeOption, promoCode string) (Quote, error) {
	const op = "pricing.PriceFor"

	options, ok := s.plans[planID]
	if !ok {
		return Quote{}, fmt.Errorf("%s: %w: unknown plan %q", op, ErrInvalidPlanOption, planID)
	}
	basePrice, ok := options[timeOption]
	if !ok || basePrice <= 0 {
		return Quote{}, fmt.Errorf("%s: %w: plan %q has no option %q", op, ErrInvalidPlanOption, planID, timeOption)
	}

	durationMinutes, err := timeopt.Minutes(timeOption)
	if err != nil {
		return Quote{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidPlanOption, err)
	}

	planType, err := PlanTypeForID(planID)
	if err != nil {
		return Quote{}, fmt.Errorf("%s: %w", op, err)
	}

	var discount float64
	if promoCode != "" {
		discount, _ = s.LookupPromo(promoCode)
	}

	return Quote{
		Amount:          basePrice * (1 - discount/100),
		DurationMinutes: durationMinutes,
		PlanType:        planType,
		Discount:        discount,
	}, nil
}
