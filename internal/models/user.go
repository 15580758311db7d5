// Package models содержит доменные структуры системы учёта бонусов:
// пользователей, товары, прайс-листы, записи продаж и объявления.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Goals хранит цели пользователя по бонусам на день, неделю и месяц.
type Goals struct {
	Daily   int `json:"daily"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
}

// User представляет зарегистрированного сотрудника.
// Ключом записи служит email, приведённый к нижнему регистру.
type User struct {
	Email            string     `json:"email"`                        // Электронная почта (уникальный ключ)
	Name             string     `json:"name"`                         // Отображаемое имя
	Team             string     `json:"team"`                         // Название команды
	PasswordHash     string     `json:"password"`                     // Хэш пароля (bcrypt, легаси pbkdf2$)
	Invisible        bool       `json:"invisible"`                    // Скрыт из командных отчётов
	Goals            Goals      `json:"goals"`                        // Цели по бонусам
	Color            string     `json:"color"`                        // Цвет линии на графиках
	IsAdmin          bool       `json:"is_admin"`                     // Признак администратора
	CreatedAt        time.Time  `json:"created_at"`                   // Дата регистрации
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`      // Последний вход
	SessionSID       *string    `json:"session_sid,omitempty"`        // Идентификатор активной сессии
	SessionExpiresAt *time.Time `json:"session_expires_at,omitempty"` // Срок действия сессии
}

// SessionActive сообщает, действительна ли сессия пользователя на момент now.
func (u *User) SessionActive(now time.Time) bool {
	return u.SessionSID != nil && u.SessionExpiresAt != nil && now.Before(*u.SessionExpiresAt)
}

// Role возвращает роль пользователя для claims токена.
func (u *User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}
