package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase passthrough", input: "es", expected: "es"},
		{name: "uppercase", input: "ES", expected: "es"},
		{name: "underscore region", input: "zh_CN", expected: "zh-cn"},
		{name: "surrounding whitespace", input: "  fr ", expected: "fr"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestSet_Resolve(t *testing.T) {
	set := NewDefaultSet()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "supported language", input: "es", expected: "es"},
		{name: "default language", input: "en", expected: "en"},
		{name: "unsupported falls back", input: "xx", expected: "en"},
		{name: "empty falls back", input: "", expected: "en"},
		{name: "normalized before lookup", input: "ZH_CN", expected: "zh-cn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, set.Resolve(tt.input))
		})
	}
}

func TestSet_Targets(t *testing.T) {
	set := NewSet("en", []string{"en", "es", "fr"})

	targets := set.Targets()
	assert.Equal(t, []string{"es", "fr"}, targets)
	assert.NotContains(t, targets, "en")
}

func TestNewSet_AlwaysIncludesDefault(t *testing.T) {
	set := NewSet("en", []string{"es"})

	assert.True(t, set.Contains("en"))
	assert.True(t, set.Contains("es"))
	assert.Equal(t, "en", set.Default())
}

func TestNewSet_DeduplicatesCodes(t *testing.T) {
	set := NewSet("en", []string{"es", "ES", "es"})
	assert.Equal(t, []string{"en", "es"}, set.All())
}
