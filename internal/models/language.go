package models

import "strings"

// Language is one of the two locales the inspectors work in.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// ParseLanguage accepts "en" or "ar" in any case. ok is false for every other value.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEnglish:
		return LanguageEnglish, true
	case LanguageArabic:
		return LanguageArabic, true
	default:
		return "", false
	}
}

// Toggle switches between the two languages.
func (l Language) Toggle() Language {
	if l == LanguageArabic {
		return LanguageEnglish
	}
	return LanguageArabic
}

// Name is the human name of the language in that language itself.
func (l Language) Name() string {
	if l == LanguageArabic {
		return "العربية"
	}
	return "English"
}

// Text is a display string in both languages.
type Text struct {
	EN string `json:"en" yaml:"en"`
	AR string `json:"ar" yaml:"ar"`
}

// In returns the text in the given language, falling back to English when the Arabic text is missing.
func (t Text) In(lang Language) string {
	if lang == LanguageArabic && t.AR != "" {
		return t.AR
	}
	return t.EN
}
