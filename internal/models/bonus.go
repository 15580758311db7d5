package models

// Product описывает товар из каталога. Удаление товара из каталога
// не меняет исторические записи продаж.
type Product struct {
	Code  string `json:"code"`  // Код товара (уникальный ключ)
	Name  string `json:"name"`  // Название
	Bonus int    `json:"bonus"` // Бонус по умолчанию, если товар отсутствует в прайс-листе
}

// PriceSchedule — прайс-лист, действующий с даты EffectiveDate.
// Даты хранятся строками в формате 2006-01-02, сравнение лексикографическое.
type PriceSchedule struct {
	EffectiveDate string         `json:"effective_date"`
	Prices        map[string]int `json:"prices"`
}

// BonusConfig объединяет каталог товаров и список прайс-листов.
// Инвариант: Schedules отсортирован по возрастанию EffectiveDate,
// дубликаты дат запрещены, список никогда не пуст.
type BonusConfig struct {
	Products  []Product       `json:"products"`
	Schedules []PriceSchedule `json:"schedules"`
}

// ProductIndex возвращает каталог в виде отображения код -> товар.
func (c *BonusConfig) ProductIndex() map[string]Product {
	idx := make(map[string]Product, len(c.Products))
	for _, p := range c.Products {
		idx[p.Code] = p
	}
	return idx
}
