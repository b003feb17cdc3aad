package model

import "time"

type FAQ struct {
	FAQID     string    `db:"faq_id"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type FAQTranslation struct {
	FAQID     string    `db:"faq_id"`
	Lang      string    `db:"lang"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	UpdatedAt time.Time `db:"updated_at"`
}
