package router

import (
	"github.com/gin-gonic/gin"

	"github.com/faqhub/faq-service/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	healthHandler := handler.NewHealthHandler(deps)
	r.GET("/health", healthHandler.Health)

	// Initialize FAQ handler
	faqHandler := handler.NewFAQHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		faqs := v1.Group("/faqs")
		{
			// Public reads; language selected via ?lang=
			faqs.GET("", faqHandler.ListFAQs)
			faqs.GET("/:faq_id", faqHandler.GetFAQ)

			// Mutations require the admin token
			admin := faqs.Group("", AdminAuthMiddleware(deps.AdminToken))
			{
				admin.POST("", faqHandler.CreateFAQ)
				admin.PUT("/:faq_id", faqHandler.UpdateFAQ)
				admin.DELETE("/:faq_id", faqHandler.DeleteFAQ)
			}
		}
	}

	return r
}
