// Package smtp предоставляет почтовый транспорт для рассылки объявлений.
// Реальный Transport скрыт за интерфейсами, чтобы сервис рассылки можно
// было тестировать без живого почтового сервера.
package smtp

import "io"

// Client — минимальная поверхность SMTP сессии, нужная рассылке.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает SMTP сессии и знает адрес отправителя.
type TransportInterface interface {
	Connect() (Client, error)
	From() string
}
