package lang

import (
	"fmt"
	"strings"
)

// Default translation direction: Classical Chinese into English.
const (
	DefaultSource = "lzh"
	DefaultTarget = "en"
)

// languages maps supported base codes to their English display name.
// Base codes are ISO 639-1, plus ISO 639-3 codes for historical languages
// that have no two-letter code.
var languages = map[string]string{
	"af":  "Afrikaans",
	"ar":  "Arabic",
	"bg":  "Bulgarian",
	"bn":  "Bengali",
	"ca":  "Catalan",
	"cs":  "Czech",
	"da":  "Danish",
	"de":  "German",
	"el":  "Greek",
	"en":  "English",
	"es":  "Spanish",
	"et":  "Estonian",
	"fa":  "Persian",
	"fi":  "Finnish",
	"fr":  "French",
	"he":  "Hebrew",
	"hi":  "Hindi",
	"hr":  "Croatian",
	"hu":  "Hungarian",
	"id":  "Indonesian",
	"it":  "Italian",
	"ja":  "Japanese",
	"ko":  "Korean",
	"la":  "Latin",
	"lt":  "Lithuanian",
	"lv":  "Latvian",
	"mn":  "Mongolian",
	"ms":  "Malay",
	"nl":  "Dutch",
	"no":  "Norwegian",
	"pl":  "Polish",
	"pt":  "Portuguese",
	"ro":  "Romanian",
	"ru":  "Russian",
	"sa":  "Sanskrit",
	"sk":  "Slovak",
	"sl":  "Slovenian",
	"sr":  "Serbian",
	"sv":  "Swedish",
	"sw":  "Swahili",
	"ta":  "Tamil",
	"th":  "Thai",
	"tr":  "Turkish",
	"uk":  "Ukrainian",
	"ur":  "Urdu",
	"vi":  "Vietnamese",
	"zh":  "Chinese",
	"lzh": "Classical Chinese",
	"grc": "Ancient Greek",
	"ojp": "Old Japanese",
	"okm": "Middle Korean",
}

// locales holds display names for regional or script variants.
var locales = map[string]string{
	"en-us":   "American English",
	"en-gb":   "British English",
	"fr-ca":   "Canadian French",
	"es-mx":   "Mexican Spanish",
	"pt-br":   "Brazilian Portuguese",
	"pt-pt":   "European Portuguese",
	"zh-cn":   "Simplified Chinese",
	"zh-hans": "Simplified Chinese",
	"zh-tw":   "Traditional Chinese",
	"zh-hant": "Traditional Chinese",
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(lang string) string {
	return strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
}

// Validate checks if the language code is supported.
// Accepts base codes (e.g., "en", "lzh") and locales (e.g., "pt-BR", "zh-Hant").
// Returns ErrInvalid for empty or unrecognized codes.
func Validate(lang string) error {
	if lang == "" {
		return fmt.Errorf("language code cannot be empty: %w", ErrInvalid)
	}
	if _, ok := languages[BaseCode(lang)]; !ok {
		return fmt.Errorf("invalid language code %q (use codes like 'en', 'lzh', 'zh-Hant'): %w",
			lang, ErrInvalid)
	}
	return nil
}

// BaseCode extracts the base language code from a locale.
// Examples: "pt-BR" -> "pt", "zh-Hant" -> "zh", "lzh" -> "lzh"
func BaseCode(lang string) string {
	normalized := Normalize(lang)
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// DisplayName returns a human-readable name for the code, used in
// translation instructions. Falls back to the base language name, then to
// the code itself.
func DisplayName(lang string) string {
	normalized := Normalize(lang)
	if name, ok := locales[normalized]; ok {
		return name
	}
	if name, ok := languages[normalized]; ok {
		return name
	}
	if name, ok := languages[BaseCode(lang)]; ok {
		return name
	}
	return lang
}
