package handler

import (
	"log/slog"

	"github.com/faqhub/faq-service/internal/api/service"
	"github.com/faqhub/faq-service/shared/postgresql"
	"github.com/faqhub/faq-service/shared/rabbitmq"
	"github.com/faqhub/faq-service/shared/redis"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	Orchestrator *service.Orchestrator
	DBClient     *postgresql.Client
	RabbitClient *rabbitmq.Client
	RedisClient  *redis.Client
	AdminToken   string
}

// FAQHandler handles FAQ-related HTTP requests
type FAQHandler struct {
	logger       *slog.Logger
	orchestrator *service.Orchestrator
}

// NewFAQHandler creates a new FAQHandler instance
func NewFAQHandler(deps *Dependencies) *FAQHandler {
	return &FAQHandler{
		logger:       deps.Logger,
		orchestrator: deps.Orchestrator,
	}
}
