package rabbitmq

// ExchangeName — exchange, через который расходятся события объявлений.
const ExchangeName = "announcements"

// AnnouncementQueue и AnnouncementRoutingKey описывают очередь, которую
// слушает сервис рассылки.
const (
	AnnouncementQueue      = "announcements.created"
	AnnouncementRoutingKey = "created"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetAnnouncementQueues возвращает очереди, необходимые сервису рассылки.
func GetAnnouncementQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: AnnouncementQueue, RoutingKey: AnnouncementRoutingKey},
	}
}
