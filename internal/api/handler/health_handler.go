package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/faqhub/faq-service/shared/postgresql"
	"github.com/faqhub/faq-service/shared/rabbitmq"
	"github.com/faqhub/faq-service/shared/redis"
)

// HealthHandler reports reachability of the service's collaborators.
type HealthHandler struct {
	dbClient     *postgresql.Client
	rabbitClient *rabbitmq.Client
	redisClient  *redis.Client
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(deps *Dependencies) *HealthHandler {
	return &HealthHandler{
		dbClient:     deps.DBClient,
		rabbitClient: deps.RabbitClient,
		redisClient:  deps.RedisClient,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	checks := gin.H{
		"database": "ok",
		"queue":    "ok",
		"cache":    "ok",
	}
	healthy := true

	if err := h.dbClient.HealthCheck(ctx); err != nil {
		checks["database"] = "unavailable"
		healthy = false
	}

	if !h.rabbitClient.IsConnected() {
		checks["queue"] = "unavailable"
		healthy = false
	}

	// cache degradation is not fatal; reads fall through to the store
	if err := h.redisClient.HealthCheck(ctx); err != nil {
		checks["cache"] = "unavailable"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  checks,
		"service": "faq-api-service",
	})
}
