// Package faq defines the FAQ domain model shared by the API and the
// translation worker.
package faq

import "time"

// Translation is one language's question/answer pair.
type Translation struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Complete reports whether both fields are translated. A question-only pair
// is persisted partial progress and still counts as untranslated for reads.
func (t Translation) Complete() bool {
	return t.Question != "" && t.Answer != ""
}

// FAQ is the durable record: base-language content plus per-language
// translations. The Translations map never contains the default language,
// and a missing key is distinguishable from an empty pair.
type FAQ struct {
	ID           string
	Question     string
	Answer       string
	Translations map[string]Translation
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Translated returns the complete translation for lang, if one exists.
func (f *FAQ) Translated(lang string) (Translation, bool) {
	t, ok := f.Translations[lang]
	if !ok || !t.Complete() {
		return Translation{}, false
	}
	return t, true
}

// TranslatedFAQ is the read-side view of a FAQ in one language. When the
// requested translation does not exist yet, Question and Answer carry the
// default-language text and Pending is true; callers always receive
// displayable content.
type TranslatedFAQ struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	Pending   bool      `json:"pending,omitempty"`
}

// Resolve applies the per-entry resolution rule: default language and
// already-translated languages resolve directly, anything else serves the
// base text flagged pending.
func Resolve(f *FAQ, lang, defaultLang string) TranslatedFAQ {
	view := TranslatedFAQ{
		ID:        f.ID,
		Question:  f.Question,
		Answer:    f.Answer,
		CreatedAt: f.CreatedAt,
	}

	if lang == defaultLang {
		return view
	}

	if t, ok := f.Translated(lang); ok {
		view.Question = t.Question
		view.Answer = t.Answer
		return view
	}

	view.Pending = true
	return view
}
