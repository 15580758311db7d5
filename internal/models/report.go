package models

// Summary — агрегат по одному пользователю за период: количество по
// каждому коду товара (включая нули) и суммарный бонус.
type Summary struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// TeamRow — строка командного отчёта.
type TeamRow struct {
	Email  string         `json:"email"`
	Name   string         `json:"name"`
	Team   string         `json:"team"`
	Color  string         `json:"color"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// TimeseriesPoint — точка графика: значение бонуса по каждому участнику
// в пределах одного бакета (день периода либо час суток).
type TimeseriesPoint struct {
	Bucket string         `json:"bucket"`
	Values map[string]int `json:"values"`
}

// GoalBar — прогресс по одной цели.
type GoalBar struct {
	Current int `json:"current"`
	Goal    int `json:"goal"`
}

// GoalProgress — прогресс пользователя по трём целям.
type GoalProgress struct {
	Daily   GoalBar `json:"daily"`
	Weekly  GoalBar `json:"weekly"`
	Monthly GoalBar `json:"monthly"`
}

// Diagnostics описывает фактическое состояние внешних зависимостей после
// старта: какой бэкенд выбран и какие подсистемы деградировали.
// Отдаётся только администраторам.
type Diagnostics struct {
	Backend      string `json:"backend"`
	StorageError string `json:"storage_error,omitempty"`
	CacheError   string `json:"cache_error,omitempty"`
	BrokerError  string `json:"broker_error,omitempty"`
}
