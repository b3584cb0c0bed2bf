// Package lang translates the ISO-639-1 language codes Twitch reports into English names.
package lang

// names maps ISO-639-1 codes (plus Twitch's "other" and "asl") to English language names.
var names = map[string]string{
	"ar":    "Arabic",
	"asl":   "American Sign Language",
	"bg":    "Bulgarian",
	"ca":    "Catalan",
	"cs":    "Czech",
	"da":    "Danish",
	"de":    "German",
	"el":    "Greek",
	"en":    "English",
	"es":    "Spanish",
	"fi":    "Finnish",
	"fr":    "French",
	"he":    "Hebrew",
	"hi":    "Hindi",
	"hu":    "Hungarian",
	"id":    "Indonesian",
	"it":    "Italian",
	"ja":    "Japanese",
	"ko":    "Korean",
	"ms":    "Malay",
	"nl":    "Dutch",
	"no":    "Norwegian",
	"pl":    "Polish",
	"pt":    "Portuguese",
	"ro":    "Romanian",
	"ru":    "Russian",
	"sk":    "Slovak",
	"sv":    "Swedish",
	"th":    "Thai",
	"tl":    "Tagalog",
	"tr":    "Turkish",
	"uk":    "Ukrainian",
	"vi":    "Vietnamese",
	"zh":    "Chinese",
	"zh-hk": "Cantonese",
	"other": "Other",
}

// Option is an entry of the language selector.
type Option struct {
	Code string
	Name string
}

// options are the languages offered in the search form; the empty code means any language.
var options = []Option{
	{"", "All"},
	{"en", "English"},
	{"de", "German"},
	{"it", "Italian"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"ru", "Russian"},
	{"es", "Spanish"},
}

// Translate returns the English name of code, or code itself when it is not known.
func Translate(code string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return code
}

// Known reports whether code is a language Twitch reports.
func Known(code string) bool {
	_, ok := names[code]
	return ok
}

// Options returns the selector entries in display order.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}
