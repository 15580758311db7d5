package models

// DefaultProducts — стартовый каталог товаров, создаваемый при первом
// запуске с пустым хранилищем. Коды и бонусы соответствуют действующему
// регламенту отдела продаж.
func DefaultProducts() []Product {
	return []Product{
		{Code: "fiber_new", Name: "אינטרנט סיבים חדש", Bonus: 23},
		{Code: "copper_new", Name: "אינטרנט נחושת חדש", Bonus: 10},
		{Code: "mesh_copper", Name: "מגדיל טווח MESH בנחושת", Bonus: 5},
		{Code: "bspot_copper", Name: "מגדיל טווח BSPOT בנחושת", Bonus: 10},
		{Code: "mesh_fiber", Name: "מגדיל טווח MESH FIBER בסיבים", Bonus: 10},
		{Code: "upgrade_fiber_to_fiber", Name: "שדרוג מסיב לסיב", Bonus: 8},
		{Code: "cyber_plus", Name: "סייבר+", Bonus: 10},
		{Code: "biznet_copper", Name: "ביזנט בנחושת", Bonus: 43},
		{Code: "bizfiber_fiber", Name: "ביזפייבר בסיבים האופטיים", Bonus: 73},
		{Code: "upgrade_biznet_to_bizfiber", Name: "שדרוג מביזנט (נחושת) לביזפייבר (סיבים)", Bonus: 20},
	}
}

// DefaultBonusConfig — стартовая конфигурация: каталог по умолчанию и
// один прайс-лист, действующий с начала эпохи.
func DefaultBonusConfig() BonusConfig {
	products := DefaultProducts()
	prices := make(map[string]int, len(products))
	for _, p := range products {
		prices[p.Code] = p.Bonus
	}
	return BonusConfig{
		Products: products,
		Schedules: []PriceSchedule{
			{EffectiveDate: "1970-01-01", Prices: prices},
		},
	}
}
