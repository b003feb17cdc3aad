package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/faqhub/faq-service/internal/api/dto"
	"github.com/faqhub/faq-service/internal/faq"
)

// ListFAQs handles GET /api/v1/faqs?lang=xx
// Returns every FAQ translated into the requested language. Responds 202
// when any item is still pending translation, 200 otherwise.
func (h *FAQHandler) ListFAQs(c *gin.Context) {
	lang := c.Query("lang")

	views, pending, err := h.orchestrator.ListFAQs(c.Request.Context(), lang)
	if err != nil {
		h.logger.Error("Failed to list FAQs",
			slog.String("lang", lang),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list FAQs",
		})
		return
	}

	resp := dto.ListFAQsResponse{
		// the resolved language, not the raw query value: unsupported codes
		// fall back to the default and the response says so
		Lang: h.orchestrator.ResolveLanguage(lang),
		FAQs: make([]dto.TranslatedFAQResponse, len(views)),
	}
	for i := range views {
		resp.FAQs[i] = dto.FromTranslated(&views[i])
	}

	status := http.StatusOK
	if pending {
		// translations are still being produced; retry later for full content
		status = http.StatusAccepted
	}

	c.JSON(status, resp)
}

// GetFAQ handles GET /api/v1/faqs/:faq_id?lang=xx
// Responds 202 with default-language content when the translation is
// pending, 200 with the translated pair otherwise.
func (h *FAQHandler) GetFAQ(c *gin.Context) {
	faqID := c.Param("faq_id")
	if _, err := uuid.Parse(faqID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "faq_id must be a valid UUID",
		})
		return
	}

	lang := c.Query("lang")

	view, err := h.orchestrator.GetFAQ(c.Request.Context(), faqID, lang)
	if err != nil {
		if errors.Is(err, faq.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "FAQ not found",
			})
			return
		}
		h.logger.Error("Failed to get FAQ",
			slog.String("faq_id", faqID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get FAQ",
		})
		return
	}

	status := http.StatusOK
	if view.Pending {
		status = http.StatusAccepted
	}

	c.JSON(status, dto.FromTranslated(view))
}

// CreateFAQ handles POST /api/v1/faqs
// Persists the FAQ in the default language and triggers asynchronous
// translation; pending translations are never inlined into the response.
func (h *FAQHandler) CreateFAQ(c *gin.Context) {
	var req dto.CreateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	created, err := h.orchestrator.CreateFAQ(c.Request.Context(), req.Question, req.Answer)
	if err != nil {
		h.logger.Error("Failed to create FAQ", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create FAQ",
		})
		return
	}

	c.JSON(http.StatusCreated, dto.FromFAQ(created))
}

// UpdateFAQ handles PUT /api/v1/faqs/:faq_id
func (h *FAQHandler) UpdateFAQ(c *gin.Context) {
	faqID := c.Param("faq_id")
	if _, err := uuid.Parse(faqID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "faq_id must be a valid UUID",
		})
		return
	}

	var req dto.UpdateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	updated, err := h.orchestrator.UpdateFAQ(c.Request.Context(), faqID, req.Question, req.Answer)
	if err != nil {
		if errors.Is(err, faq.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "FAQ not found",
			})
			return
		}
		h.logger.Error("Failed to update FAQ",
			slog.String("faq_id", faqID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update FAQ",
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromFAQ(updated))
}

// DeleteFAQ handles DELETE /api/v1/faqs/:faq_id
func (h *FAQHandler) DeleteFAQ(c *gin.Context) {
	faqID := c.Param("faq_id")
	if _, err := uuid.Parse(faqID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "faq_id must be a valid UUID",
		})
		return
	}

	if err := h.orchestrator.DeleteFAQ(c.Request.Context(), faqID); err != nil {
		if errors.Is(err, faq.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "FAQ not found",
			})
			return
		}
		h.logger.Error("Failed to delete FAQ",
			slog.String("faq_id", faqID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete FAQ",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
