// Package storage is the worker-side persistence layer. It writes
// translations one field at a time so that progress survives a crash between
// the question and answer calls to the provider.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/faqhub/faq-service/internal/faq"
	"github.com/faqhub/faq-service/shared/postgresql"
)

// Field names one half of a translation pair.
type Field string

const (
	FieldQuestion Field = "question"
	FieldAnswer   Field = "answer"
)

type faqRow struct {
	FAQID     string    `db:"faq_id"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type translationRow struct {
	FAQID    string `db:"faq_id"`
	Lang     string `db:"lang"`
	Question string `db:"question"`
	Answer   string `db:"answer"`
}

// Storage provides database operations for the translation worker.
type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

// GetFAQByID loads one FAQ with every stored translation, including partial
// pairs. The worker needs the partials to resume field by field.
func (s *Storage) GetFAQByID(ctx context.Context, faqID string) (*faq.FAQ, error) {
	var row faqRow
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

	var translations []translationRow
	trQuery := `
		SELECT faq_id, lang, question, answer
		FROM faq_translations
		WHERE faq_id = $1
	`
	if err := s.db.SelectContext(ctx, &translations, trQuery, faqID); err != nil {
		return nil, fmt.Errorf("failed to get faq translations: %w", err)
	}

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

	return f, nil
}

// ListFAQs loads all FAQs in insertion order with their translations. Used to
// rebuild the per-language aggregate caches after a job completes.
func (s *Storage) ListFAQs(ctx context.Context) ([]faq.FAQ, error) {
	var rows []faqRow
	query := `
		SELECT faq_id, question, answer, created_at, updated_at
		FROM faqs
		ORDER BY created_at ASC, faq_id ASC
	`

	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}

	var translations []translationRow
	trQuery := `
		SELECT faq_id, lang, question, answer
		FROM faq_translations
	`
	if err := s.db.SelectContext(ctx, &translations, trQuery); err != nil {
		return nil, fmt.Errorf("failed to list faq translations: %w", err)
	}

	byFAQ := make(map[string]map[string]faq.Translation)
	for _, tr := range translations {
		if byFAQ[tr.FAQID] == nil {
			byFAQ[tr.FAQID] = make(map[string]faq.Translation)
		}
		byFAQ[tr.FAQID][tr.Lang] = faq.Translation{
			Question: tr.Question,
			Answer:   tr.Answer,
		}
	}

	faqs := make([]faq.FAQ, 0, len(rows))
	for _, row := range rows {
		tr := byFAQ[row.FAQID]
		if tr == nil {
			tr = make(map[string]faq.Translation)
		}
		faqs = append(faqs, faq.FAQ{
			ID:           row.FAQID,
			Question:     row.Question,
			Answer:       row.Answer,
			Translations: tr,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		})
	}

	return faqs, nil
}

// SetTranslationField upserts a single translated field, leaving the other
// field of the pair untouched.
func (s *Storage) SetTranslationField(ctx context.Context, faqID, lang string, field Field, text string) error {
	var query string
	switch field {
	case FieldQuestion:
		query = `
			INSERT INTO faq_translations (faq_id, lang, question, answer, updated_at)
			VALUES ($1, $2, $3, '', NOW())
			ON CONFLICT (faq_id, lang)
			DO UPDATE SET question = EXCLUDED.question, updated_at = NOW()
		`
	case FieldAnswer:
		query = `
			INSERT INTO faq_translations (faq_id, lang, question, answer, updated_at)
			VALUES ($1, $2, '', $3, NOW())
			ON CONFLICT (faq_id, lang)
			DO UPDATE SET answer = EXCLUDED.answer, updated_at = NOW()
		`
	default:
		return fmt.Errorf("unknown translation field: %q", field)
	}

	if _, err := s.db.ExecContext(ctx, query, faqID, lang, text); err != nil {
		return fmt.Errorf("failed to set translation %s: %w", field, err)
	}

	return nil
}
