package faq

import "errors"

// ErrNotFound is returned when a FAQ does not exist in the content store.
var ErrNotFound = errors.New("faq not found")
