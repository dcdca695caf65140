package shared

// shared types across the application
// 1st: supported content languages for stories and progress
// 2nd: localized text replacing the old open map of language code => string

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported content language, stored as its ISO 639-1 base code.
type Language string

const (
	English    Language = "en"
	Spanish    Language = "es"
	French     Language = "fr"
	German     Language = "de"
	Italian    Language = "it"
	Portuguese Language = "pt"
)

// DefaultLanguage is used when a progress write does not name a language.
const DefaultLanguage = English

var ErrUnsupportedLanguage = errors.New("unsupported language")

var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.French,
	language.German,
	language.Italian,
	language.Portuguese,
}

// SupportedLanguages returns the supported language codes in a stable order.
func SupportedLanguages() []Language {
	out := make([]Language, 0, len(supported))
	for _, tag := range supported {
		base, _ := tag.Base()
		out = append(out, Language(base.String()))
	}
	return out
}

// ParseLanguage accepts any BCP 47 tag ("en", "EN-us", "pt-BR") and reduces it
// to one of the supported base languages.
func ParseLanguage(raw string) (Language, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty language tag", ErrUnsupportedLanguage)
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, raw)
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, raw)
	}
	for _, s := range supported {
		sb, _ := s.Base()
		if sb == base {
			return Language(base.String()), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, raw)
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	for _, s := range SupportedLanguages() {
		if s == l {
			return true
		}
	}
	return false
}

// LocalizedText holds one string per supported language.
type LocalizedText struct {
	EN string `json:"en,omitempty"`
	ES string `json:"es,omitempty"`
	FR string `json:"fr,omitempty"`
	DE string `json:"de,omitempty"`
	IT string `json:"it,omitempty"`
	PT string `json:"pt,omitempty"`
}

// Get returns the text for lang, falling back to English.
func (t LocalizedText) Get(lang Language) string {
	var v string
	switch lang {
	case English:
		v = t.EN
	case Spanish:
		v = t.ES
	case French:
		v = t.FR
	case German:
		v = t.DE
	case Italian:
		v = t.IT
	case Portuguese:
		v = t.PT
	}
	if v == "" {
		return t.EN
	}
	return v
}

// LocalizedTextFromMap validates an incoming language => text map once at the
// boundary. Unknown languages are rejected and English is required.
func LocalizedTextFromMap(m map[string]string) (LocalizedText, error) {
	var t LocalizedText
	for raw, text := range m {
		lang, err := ParseLanguage(raw)
		if err != nil {
			return LocalizedText{}, err
		}
		text = strings.TrimSpace(text)
		switch lang {
		case English:
			t.EN = text
		case Spanish:
			t.ES = text
		case French:
			t.FR = text
		case German:
			t.DE = text
		case Italian:
			t.IT = text
		case Portuguese:
			t.PT = text
		}
	}
	if t.EN == "" {
		return LocalizedText{}, errors.New("english text is required")
	}
	return t, nil
}
