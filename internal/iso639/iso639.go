// Package iso639 resolves human-readable language names, as they appear in
// the Awin feed list export, to ISO 639-1 two-letter codes.
package iso639

import "strings"

var codeByName = map[string]string{
	"abkhazian":        "ab",
	"afar":             "aa",
	"afrikaans":        "af",
	"albanian":         "sq",
	"amharic":          "am",
	"arabic":           "ar",
	"armenian":         "hy",
	"azerbaijani":      "az",
	"basque":           "eu",
	"belarusian":       "be",
	"bengali":          "bn",
	"bosnian":          "bs",
	"bulgarian":        "bg",
	"burmese":          "my",
	"catalan":          "ca",
	"chinese":          "zh",
	"croatian":         "hr",
	"czech":            "cs",
	"danish":           "da",
	"dutch":            "nl",
	"english":          "en",
	"esperanto":        "eo",
	"estonian":         "et",
	"finnish":          "fi",
	"french":           "fr",
	"galician":         "gl",
	"georgian":         "ka",
	"german":           "de",
	"greek":            "el",
	"hebrew":           "he",
	"hindi":            "hi",
	"hungarian":        "hu",
	"icelandic":        "is",
	"indonesian":       "id",
	"irish":            "ga",
	"italian":          "it",
	"japanese":         "ja",
	"kazakh":           "kk",
	"khmer":            "km",
	"korean":           "ko",
	"kurdish":          "ku",
	"lao":              "lo",
	"latin":            "la",
	"latvian":          "lv",
	"lithuanian":       "lt",
	"luxembourgish":    "lb",
	"macedonian":       "mk",
	"malay":            "ms",
	"maltese":          "mt",
	"mongolian":        "mn",
	"nepali":           "ne",
	"norwegian":        "no",
	"pashto":           "ps",
	"persian":          "fa",
	"polish":           "pl",
	"portuguese":       "pt",
	"punjabi":          "pa",
	"romanian":         "ro",
	"russian":          "ru",
	"serbian":          "sr",
	"sinhala":          "si",
	"slovak":           "sk",
	"slovenian":        "sl",
	"somali":           "so",
	"spanish":          "es",
	"swahili":          "sw",
	"swedish":          "sv",
	"tagalog":          "tl",
	"tamil":            "ta",
	"telugu":           "te",
	"thai":             "th",
	"turkish":          "tr",
	"ukrainian":        "uk",
	"urdu":             "ur",
	"uzbek":            "uz",
	"vietnamese":       "vi",
	"welsh":            "cy",
	"yiddish":          "yi",
	"zulu":             "zu",
}

// CodeByName returns the ISO 639-1 code for a language name, e.g.
// "English" -> "en". Matching is case-insensitive. The second return value
// is false when the name is not recognized.
func CodeByName(name string) (string, bool) {
	code, ok := codeByName[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}
