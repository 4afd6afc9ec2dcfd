// Package timeopt разбирает строковые варианты длительности доступа,
// приходящие из запросов оформления заказа ("30 Minutes", "1 Hour", "2 Hours"),
// а также переводит административные единицы выдачи доступа в time.Duration.
package timeopt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Minutes разбирает вариант длительности вида "<число> <единица>" и
// возвращает длительность в минутах. Единица, содержащая "hour",
// умножает число на 60, любая другая трактуется как минуты.
func Minutes(timeOption string) (int, error) {
	const op = "timeopt.Minutes"

	fields := strings.Fields(timeOption)
	if len(fields) != 2 {
		return 0, fmt.Errorf("%s: invalid time option %q", op, timeOption)
	}
	value, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s: non-positive value in %q", op, timeOption)
	}
	if strings.Contains(strings.ToLower(fields[1]), "hour") {
		return value * 60, nil
	}
	return value, nil
}

// GrantDuration переводит пару (amount, unit) из административной выдачи
// доступа в time.Duration. Допустимые единицы: minutes, hours, days.
func GrantDuration(amount int, unit string) (time.Duration, error) {
	const op = "timeopt.GrantDuration"

	if amount <= 0 {
		return 0, fmt.Errorf("%s: amount must be positive, got %d", op, amount)
	}
	switch strings.ToLower(unit) {
	case "minutes":
		return time.Duration(amount) * time.Minute, nil
	case "hours":
		return time.Duration(amount) * time.Hour, nil
	case "days":
		return time.Duration(amount) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%s: unknown unit %q", op, unit)
	}
}
