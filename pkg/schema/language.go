package schema

// Language is a stemming language accepted by LANGUAGE clauses.
type Language int

// Supported languages. LanguageDefault leaves the clause out.
const (
	LanguageDefault Language = iota
	Arabic
	Armenian
	Basque
	Catalan
	Chinese
	Danish
	Dutch
	English
	Finnish
	French
	German
	Greek
	Hindi
	Hungarian
	Indonesian
	Irish
	Italian
	Lithuanian
	Nepali
	Norwegian
	Portuguese
	Romanian
	Russian
	Serbian
	Spanish
	Swedish
	Tamil
	Turkish
	Yiddish
)

var languageNames = [...]string{
	LanguageDefault: "",
	Arabic:          "arabic",
	Armenian:        "armenian",
	Basque:          "basque",
	Catalan:         "catalan",
	Chinese:         "chinese",
	Danish:          "danish",
	Dutch:           "dutch",
	English:         "english",
	Finnish:         "finnish",
	French:          "french",
	German:          "german",
	Greek:           "greek",
	Hindi:           "hindi",
	Hungarian:       "hungarian",
	Indonesian:      "indonesian",
	Irish:           "irish",
	Italian:         "italian",
	Lithuanian:      "lithuanian",
	Nepali:          "nepali",
	Norwegian:       "norwegian",
	Portuguese:      "portuguese",
	Romanian:        "romanian",
	Russian:         "russian",
	Serbian:         "serbian",
	Spanish:         "spanish",
	Swedish:         "swedish",
	Tamil:           "tamil",
	Turkish:         "turkish",
	Yiddish:         "yiddish",
}

// String renders the language argument.
func (l Language) String() string {
	if l < 0 || int(l) >= len(languageNames) {
		return ""
	}
	return languageNames[l]
}
