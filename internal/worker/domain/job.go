package domain

import "github.com/faqhub/faq-service/internal/queue"

// JobMessage carries a parsed translation job together with the RabbitMQ
// delivery tag needed to ACK or NACK it after processing.
type JobMessage struct {
	Job         queue.TranslationJob
	DeliveryTag uint64
}
