// Package languages holds the fixed table of languages the service can
// generate text and synthesize speech in. The table is shared by the
// generation-target selector and the speech-language selector and is never
// mutated at runtime.
package languages

import "sort"

// Language pairs a human-readable name with its ISO-639-style code.
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// codes maps display names to ISO-639-style codes. "मारवाड़ी" (Marwari) uses
// the non-standard but commonly seen "rwr" tag.
var codes = map[string]string{
	"English":    "en",
	"हिंदी":      "hi",
	"Español":    "es",
	"Français":   "fr",
	"Deutsch":    "de",
	"中文":         "zh",
	"日本語":        "ja",
	"한국어":        "ko",
	"Русский":    "ru",
	"اردو":       "ur",
	"বাংলা":      "bn",
	"తెలుగు":     "te",
	"தமிழ்":      "ta",
	"ગુજરાતી":    "gu",
	"मराठी":      "mr",
	"ਪੰਜਾਬੀ":     "pa",
	"ಕನ್ನಡ":      "kn",
	"मारवाड़ी":   "rwr",
	"O‘zbekcha":  "uz",
	"ქართული":    "ka",
	"العربية":    "ar",
	"Türkçe":     "tr",
	"ภาษาไทย":    "th",
	"فارسی":      "fa",
	"Shqip":      "sq",
	"Nederlands": "nl",
	"Svenska":    "sv",
	"Italiano":   "it",
	"Việt":       "vi",
	"ລາວ":        "lo",
}

// byCode is the reverse index, built once at init.
var byCode = func() map[string]string {
	m := make(map[string]string, len(codes))
	for name, code := range codes {
		m[code] = name
	}
	return m
}()

// Code returns the ISO code for a display name.
func Code(name string) (string, bool) {
	code, ok := codes[name]
	return code, ok
}

// Name returns the display name for an ISO code.
func Name(code string) (string, bool) {
	name, ok := byCode[code]
	return name, ok
}

// Supported reports whether code is in the fixed table.
func Supported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// All returns the full table sorted by code, for the /v1/languages endpoint.
func All() []Language {
	list := make([]Language, 0, len(codes))
	for name, code := range codes {
		list = append(list, Language{Name: name, Code: code})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}
