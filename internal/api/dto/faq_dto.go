package dto

import (
	"time"

	"github.com/faqhub/faq-service/internal/faq"
)

type CreateFAQRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

type UpdateFAQRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// TranslatedFAQResponse is a FAQ rendered in one language. Pending marks
// content still awaiting translation and served in the default language.
type TranslatedFAQResponse struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
	Pending   bool   `json:"pending,omitempty"`
}

type ListFAQsResponse struct {
	Lang string                  `json:"lang"`
	FAQs []TranslatedFAQResponse `json:"faqs"`
}

type FAQResponse struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func FromTranslated(view *faq.TranslatedFAQ) TranslatedFAQResponse {
	return TranslatedFAQResponse{
		ID:        view.ID,
		Question:  view.Question,
		Answer:    view.Answer,
		CreatedAt: view.CreatedAt.Format(time.RFC3339),
		Pending:   view.Pending,
	}
}

func FromFAQ(f *faq.FAQ) FAQResponse {
	return FAQResponse{
		ID:        f.ID,
		Question:  f.Question,
		Answer:    f.Answer,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
		UpdatedAt: f.UpdatedAt.Format(time.RFC3339),
	}
}
