package models

import "time"

// Message — объявление для сотрудников. Адресуется всем, списку email
// или списку команд; каждый получатель скрывает его независимо.
type Message struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Text         string    `json:"text"`
	TargetAll    bool      `json:"target_all"`
	TargetEmails []string  `json:"target_emails"`
	TargetTeams  []string  `json:"target_teams"`
	Sticky       bool      `json:"sticky"`
	Active       bool      `json:"active"`
	DismissedFor []string  `json:"dismissed_for"`
	CreatedAt    time.Time `json:"created_at"`
	Sender       string    `json:"sender"`
}

// EligibleFor сообщает, должен ли пользователь видеть объявление.
func (m *Message) EligibleFor(u *User) bool {
	if !m.Active {
		return false
	}
	for _, e := range m.DismissedFor {
		if e == u.Email {
			return false
		}
	}
	if m.TargetAll {
		return true
	}
	for _, e := range m.TargetEmails {
		if e == u.Email {
			return true
		}
	}
	if u.Team != "" {
		for _, t := range m.TargetTeams {
			if t == u.Team {
				return true
			}
		}
	}
	return false
}

// AnnouncementEvent публикуется в очередь при создании объявления
// и обрабатывается сервисом рассылки.
type AnnouncementEvent struct {
	MessageID  string   `json:"message_id"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Sender     string   `json:"sender"`
	Recipients []string `json:"recipients"`
}
