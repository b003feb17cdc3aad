package cache

import "fmt"

// Key formats are fixed so any component can derive every key for a FAQ
// without a lookup table.

// EntryKey returns the cache key for a single FAQ in one language.
func EntryKey(faqID, lang string) string {
	return fmt.Sprintf("entry:%s:%s", faqID, lang)
}

// ListKey returns the cache key for the aggregate FAQ list in one language.
func ListKey(lang string) string {
	return fmt.Sprintf("list:%s", lang)
}

// KeysForFAQ derives every key that can hold content for the given FAQ:
// one entry key per supported language plus every aggregate list key, since
// list views embed the FAQ's translated text.
func KeysForFAQ(faqID string, langs []string) []string {
	keys := make([]string, 0, 2*len(langs))
	for _, lang := range langs {
		keys = append(keys, EntryKey(faqID, lang))
	}
	for _, lang := range langs {
		keys = append(keys, ListKey(lang))
	}
	return keys
}
