package models

import "time"

// SalesRecord — запись о продажах одного товара за один день.
// Концептуально на тройку (email, date, product) приходится не более
// одной записи: сохранение дня целиком заменяет все записи за этот день.
type SalesRecord struct {
	ID         string    `json:"id,omitempty"` // Сгенерированный идентификатор
	Email      string    `json:"email"`        // Владелец записи
	Date       string    `json:"date"`         // День продажи, формат 2006-01-02
	Product    string    `json:"product"`      // Код товара
	Qty        int       `json:"qty"`          // Количество, всегда > 0 в хранилище
	RecordedAt time.Time `json:"ts"`           // Момент сохранения
}

// RecordFilter — параметры выборки записей продаж.
// Email равный nil означает выборку по всем пользователям.
type RecordFilter struct {
	Email     *string
	StartDate string // включительно
	EndDate   string // включительно
}

// Matches проверяет запись на соответствие фильтру.
func (f RecordFilter) Matches(r SalesRecord) bool {
	if f.Email != nil && r.Email != *f.Email {
		return false
	}
	return f.StartDate <= r.Date && r.Date <= f.EndDate
}
