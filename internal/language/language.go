// Package language holds the supported-language set and the fallback rules
// applied to inbound language selectors.
package language

import "strings"

// DefaultLanguage is the base language every FAQ is authored in.
const DefaultLanguage = "en"

// DefaultSupported is the language set used when the config does not
// override it.
var DefaultSupported = []string{"en", "es", "hi", "fr", "de", "zh-cn"}

// Set is a fixed collection of supported language codes including the
// default language.
type Set struct {
	defaultLang string
	codes       []string
	lookup      map[string]struct{}
}

// NewSet builds a Set from the given codes. The default language is always
// included even if absent from codes.
func NewSet(defaultLang string, codes []string) *Set {
	d := Normalize(defaultLang)
	if d == "" {
		d = DefaultLanguage
	}

	s := &Set{
		defaultLang: d,
		lookup:      make(map[string]struct{}, len(codes)+1),
	}

	s.add(d)
	for _, code := range codes {
		s.add(Normalize(code))
	}

	return s
}

// NewDefaultSet returns a Set over DefaultSupported.
func NewDefaultSet() *Set {
	return NewSet(DefaultLanguage, DefaultSupported)
}

func (s *Set) add(code string) {
	if code == "" {
		return
	}
	if _, ok := s.lookup[code]; ok {
		return
	}
	s.lookup[code] = struct{}{}
	s.codes = append(s.codes, code)
}

// Default returns the default language code.
func (s *Set) Default() string {
	return s.defaultLang
}

// Contains reports whether code is a supported language.
func (s *Set) Contains(code string) bool {
	_, ok := s.lookup[Normalize(code)]
	return ok
}

// Resolve normalizes code and silently falls back to the default language
// when the code is empty or unsupported. Unsupported selectors are not an
// error anywhere in the system.
func (s *Set) Resolve(code string) string {
	normalized := Normalize(code)
	if _, ok := s.lookup[normalized]; ok {
		return normalized
	}
	return s.defaultLang
}

// All returns every supported code, default language first.
func (s *Set) All() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

// Targets returns every supported code except the default language. These
// are the translation targets for a newly created or updated FAQ.
func (s *Set) Targets() []string {
	out := make([]string, 0, len(s.codes)-1)
	for _, code := range s.codes {
		if code != s.defaultLang {
			out = append(out, code)
		}
	}
	return out
}

// Normalize lowercases a language code and canonicalizes the region
// separator ("zh_CN" -> "zh-cn").
func Normalize(code string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(code)), "_", "-")
}
