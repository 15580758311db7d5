// Package bonus реализует расчёт бонусов по датированным прайс-листам.
//
// Прайс-лист действует с его effective_date и до начала следующего.
// Для записи продажи бонус всегда берётся по дате самой записи, поэтому
// исторические отчёты не меняются при добавлении будущих прайс-листов.
package bonus

import "github.com/magabrotheeeer/bonus-tracker/internal/models"

// Resolve возвращает бонус за единицу товара code на дату onDate.
//
// Список cfg.Schedules должен быть непустым и отсортирован по возрастанию
// effective_date — это гарантирует хранилище. Выбирается прайс-лист с
// наибольшей effective_date <= onDate; если onDate раньше всех прайс-листов,
// берётся самый ранний. Товар, отсутствующий в выбранном прайс-листе,
// получает бонус по умолчанию из каталога; неизвестный товар даёт 0.
// Даты — строки формата 2006-01-02, сравнение лексикографическое.
func Resolve(code, onDate string, cfg *models.BonusConfig) int {
	var applicable *models.PriceSchedule
	for i := range cfg.Schedules {
		if cfg.Schedules[i].EffectiveDate <= onDate {
			applicable = &cfg.Schedules[i]
		} else {
			break
		}
	}
	if applicable == nil {
		applicable = &cfg.Schedules[0]
	}
	if price, ok := applicable.Prices[code]; ok {
		return price
	}
	for _, p := range cfg.Products {
		if p.Code == code {
			return p.Bonus
		}
	}
	return 0
}

// SumRange суммирует бонусы по записям внутри периода [start, end].
// Бонус каждой записи считается по её собственной дате.
func SumRange(records []models.SalesRecord, start, end string, cfg *models.BonusConfig) int {
	total := 0
	for _, r := range records {
		if start <= r.Date && r.Date <= end {
			total += r.Qty * Resolve(r.Product, r.Date, cfg)
		}
	}
	return total
}

// CountsRange суммирует количества по кодам товаров внутри периода.
// В результат входят все товары каталога, в том числе с нулями.
func CountsRange(records []models.SalesRecord, start, end string, cfg *models.BonusConfig) map[string]int {
	out := make(map[string]int, len(cfg.Products))
	for _, p := range cfg.Products {
		out[p.Code] = 0
	}
	for _, r := range records {
		if start <= r.Date && r.Date <= end {
			out[r.Product] += r.Qty
		}
	}
	return out
}
