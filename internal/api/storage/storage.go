package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/faqhub/faq-service/internal/api/model"
	"github.com/faqhub/faq-service/internal/faq"
	"github.com/faqhub/faq-service/shared/postgresql"
)

// Storage is the API-side content store: FAQ CRUD plus translation reads.
type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

// CreateFAQ inserts a new base-language FAQ.
func (s *Storage) CreateFAQ(ctx context.Context, f *faq.FAQ) error {
	query := `
		INSERT INTO faqs (faq_id, question, answer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query, f.ID, f.Question, f.Answer, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}

	return nil
}

// GetFAQByID loads one FAQ with all of its translations.
func (s *Storage) GetFAQByID(ctx context.Context, faqID string) (*faq.FAQ, error) {
	var row model.FAQ
	query := `
		SELECT faq_id, question, answer, created_at, updated_at
		FROM faqs
		WHERE faq_id = $1
	`

	err := s.db.GetContext(ctx, &row, query, faqID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, faq.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get faq: %w", err)
	}

	translations, err := s.getTranslations(ctx, faqID)
	if err != nil {
		return nil, err
	}

	return toDomain(&row, translations), nil
}

// ListFAQs loads all FAQs in insertion order, translations included.
func (s *Storage) ListFAQs(ctx context.Context) ([]faq.FAQ, error) {
	var rows []model.FAQ
	query := `
		SELECT faq_id, question, answer, created_at, updated_at
		FROM faqs
		ORDER BY created_at ASC, faq_id ASC
	`

	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}

	var translationRows []model.FAQTranslation
	trQuery := `
		SELECT faq_id, lang, question, answer, updated_at
		FROM faq_translations
	`
	if err := s.db.SelectContext(ctx, &translationRows, trQuery); err != nil {
		return nil, fmt.Errorf("failed to list faq translations: %w", err)
	}

	byFAQ := make(map[string][]model.FAQTranslation)
	for _, tr := range translationRows {
		byFAQ[tr.FAQID] = append(byFAQ[tr.FAQID], tr)
	}

	faqs := make([]faq.FAQ, 0, len(rows))
	for i := range rows {
		faqs = append(faqs, *toDomain(&rows[i], byFAQ[rows[i].FAQID]))
	}

	return faqs, nil
}

// UpdateFAQ rewrites the base-language content, bumps updated_at, and drops
// every stored translation: edited content makes old translations stale.
func (s *Storage) UpdateFAQ(ctx context.Context, faqID, question, answer string) (*faq.FAQ, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE faqs
		SET question = $1, answer = $2, updated_at = NOW()
		WHERE faq_id = $3
		RETURNING faq_id, question, answer, created_at, updated_at
	`

	var row model.FAQ
	if err := tx.GetContext(ctx, &row, query, question, answer, faqID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, faq.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update faq: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM faq_translations WHERE faq_id = $1`, faqID); err != nil {
		return nil, fmt.Errorf("failed to drop stale translations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit faq update: %w", err)
	}

	return toDomain(&row, nil), nil
}

// DeleteFAQ removes a FAQ and its translations.
func (s *Storage) DeleteFAQ(ctx context.Context, faqID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM faqs WHERE faq_id = $1`, faqID)
	if err != nil {
		return fmt.Errorf("failed to delete faq: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return faq.ErrNotFound
	}

	return nil
}

// SetTranslation upserts a complete translation pair. Used by the inline
// fallback path; the worker persists per field through its own storage.
func (s *Storage) SetTranslation(ctx context.Context, faqID, lang, question, answer string) error {
	query := `
		INSERT INTO faq_translations (faq_id, lang, question, answer, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (faq_id, lang)
		DO UPDATE SET question = EXCLUDED.question, answer = EXCLUDED.answer, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, faqID, lang, question, answer); err != nil {
		return fmt.Errorf("failed to set translation: %w", err)
	}

	return nil
}

func (s *Storage) getTranslations(ctx context.Context, faqID string) ([]model.FAQTranslation, error) {
	var rows []model.FAQTranslation
	query := `
		SELECT faq_id, lang, question, answer, updated_at
		FROM faq_translations
		WHERE faq_id = $1
	`

	if err := s.db.SelectContext(ctx, &rows, query, faqID); err != nil {
		return nil, fmt.Errorf("failed to get faq translations: %w", err)
	}

	return rows, nil
}

func toDomain(row *model.FAQ, translations []model.FAQTranslation) *faq.FAQ {
	f := &faq.FAQ{
		ID:           row.FAQID,
		Question:     row.Question,
		Answer:       row.Answer,
		Translations: make(map[string]faq.Translation, len(translations)),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}

	for _, tr := range translations {
		f.Translations[tr.Lang] = faq.Translation{
			Question: tr.Question,
			Answer:   tr.Answer,
		}
	}

	return f
}
