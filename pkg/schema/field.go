// Package schema describes the fields of a search index and compiles each of
// them into the positional arguments of an FT.CREATE / FT.ALTER SCHEMA clause.
package schema

import (
	"sync"

	"github.com/kailas-cloud/ftkit/internal/args"
)

// Kind enumerates supported index field kinds.
type Kind int

const (
	// KindText is a full-text field.
	KindText Kind = iota
	// KindTag is an exact-match tag field.
	KindTag
	// KindNumeric is a numeric range field.
	KindNumeric
	// KindGeo is a geo point field.
	KindGeo
	// KindVector is a vector similarity field.
	KindVector
)

// String renders the kind as its protocol keyword.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "TEXT"
	case KindTag:
		return "TAG"
	case KindNumeric:
		return "NUMERIC"
	case KindGeo:
		return "GEO"
	case KindVector:
		return "VECTOR"
	default:
		return "UNKNOWN"
	}
}

// Field is a single schema attribute. Args is deterministic and computed at
// most once per field value.
type Field interface {
	Kind() Kind
	// Identifier is the name queries use: the alias when set, else the path.
	Identifier() string
	Args() []string
}

// Phonetic selects a phonetic matcher for TEXT fields.
type Phonetic int

// Phonetic matchers supported by the engine.
const (
	PhoneticNone Phonetic = iota
	PhoneticEnglish
	PhoneticFrench
	PhoneticPortuguese
	PhoneticSpanish
)

// String renders the matcher argument, empty for PhoneticNone.
func (p Phonetic) String() string {
	switch p {
	case PhoneticEnglish:
		return "dm:en"
	case PhoneticFrench:
		return "dm:fr"
	case PhoneticPortuguese:
		return "dm:pt"
	case PhoneticSpanish:
		return "dm:es"
	default:
		return ""
	}
}

// ParsePhonetic maps a matcher argument back to a Phonetic. Unknown values
// map to PhoneticNone.
func ParsePhonetic(s string) Phonetic {
	switch s {
	case "dm:en":
		return PhoneticEnglish
	case "dm:fr":
		return PhoneticFrench
	case "dm:pt":
		return PhoneticPortuguese
	case "dm:es":
		return PhoneticSpanish
	default:
		return PhoneticNone
	}
}

// memo caches a field's compiled argument slice.
type memo struct {
	once sync.Once
	args []string
}

func (m *memo) get(build func() []string) []string {
	m.once.Do(func() { m.args = build() })
	return m.args
}

func identifier(path, alias string) string {
	if alias != "" {
		return alias
	}
	return path
}

// nameLen is the slot count of "<path> [AS <alias>]".
func nameLen(alias string) int {
	return 1 + args.Flag(alias != "", 2)
}

func putName(b *args.Buffer, path, alias string) {
	b.Put(path)
	if alias != "" {
		b.Put("AS", alias)
	}
}

// TextField is a full-text field.
type TextField struct {
	Path     string
	Alias    string
	NoStem   bool
	Weight   float64 // 0 and 1 both mean the default weight
	Phonetic Phonetic
	Sortable bool
	NoIndex  bool

	memo memo
}

// Kind implements Field.
func (f *TextField) Kind() Kind { return KindText }

// Identifier implements Field.
func (f *TextField) Identifier() string { return identifier(f.Path, f.Alias) }

// Args returns "<name> TEXT [NOSTEM] [WEIGHT w] [PHONETIC m] [SORTABLE] [NOINDEX]".
func (f *TextField) Args() []string {
	return f.memo.get(func() []string {
		weighted := f.Weight != 0 && f.Weight != 1
		phonetic := f.Phonetic != PhoneticNone

		n := nameLen(f.Alias) + 1 +
			args.Flag(f.NoStem, 1) +
			args.Flag(weighted, 2) +
			args.Flag(phonetic, 2) +
			args.Flag(f.Sortable, 1) +
			args.Flag(f.NoIndex, 1)

		b := args.New(n)
		putName(b, f.Path, f.Alias)
		b.Put("TEXT")
		if f.NoStem {
			b.Put("NOSTEM")
		}
		if weighted {
			b.Put("WEIGHT", args.Float(f.Weight))
		}
		if phonetic {
			b.Put("PHONETIC", f.Phonetic.String())
		}
		if f.Sortable {
			b.Put("SORTABLE")
		}
		if f.NoIndex {
			b.Put("NOINDEX")
		}
		return b.Done()
	})
}

// TagField is an exact-match tag field.
type TagField struct {
	Path          string
	Alias         string
	Separator     string // engine default "," when empty
	CaseSensitive bool
	Sortable      bool
	NoIndex       bool

	memo memo
}

// Kind implements Field.
func (f *TagField) Kind() Kind { return KindTag }

// Identifier implements Field.
func (f *TagField) Identifier() string { return identifier(f.Path, f.Alias) }

// Args returns "<name> TAG [SEPARATOR s] [CASESENSITIVE] [SORTABLE] [NOINDEX]".
func (f *TagField) Args() []string {
	return f.memo.get(func() []string {
		n := nameLen(f.Alias) + 1 +
			args.Flag(f.Separator != "", 2) +
			args.Flag(f.CaseSensitive, 1) +
			args.Flag(f.Sortable, 1) +
			args.Flag(f.NoIndex, 1)

		b := args.New(n)
		putName(b, f.Path, f.Alias)
		b.Put("TAG")
		if f.Separator != "" {
			b.Put("SEPARATOR", f.Separator)
		}
		if f.CaseSensitive {
			b.Put("CASESENSITIVE")
		}
		if f.Sortable {
			b.Put("SORTABLE")
		}
		if f.NoIndex {
			b.Put("NOINDEX")
		}
		return b.Done()
	})
}

// NumericField is a numeric range field.
type NumericField struct {
	Path     string
	Alias    string
	Sortable bool
	NoIndex  bool

	memo memo
}

// Kind implements Field.
func (f *NumericField) Kind() Kind { return KindNumeric }

// Identifier implements Field.
func (f *NumericField) Identifier() string { return identifier(f.Path, f.Alias) }

// Args returns "<name> NUMERIC [SORTABLE] [NOINDEX]".
func (f *NumericField) Args() []string {
	return f.memo.get(func() []string {
		return simpleArgs(f.Path, f.Alias, KindNumeric, f.Sortable, f.NoIndex)
	})
}

// GeoField is a longitude/latitude field.
type GeoField struct {
	Path     string
	Alias    string
	Sortable bool
	NoIndex  bool

	memo memo
}

// Kind implements Field.
func (f *GeoField) Kind() Kind { return KindGeo }

// Identifier implements Field.
func (f *GeoField) Identifier() string { return identifier(f.Path, f.Alias) }

// Args returns "<name> GEO [SORTABLE] [NOINDEX]".
func (f *GeoField) Args() []string {
	return f.memo.get(func() []string {
		return simpleArgs(f.Path, f.Alias, KindGeo, f.Sortable, f.NoIndex)
	})
}

func simpleArgs(path, alias string, kind Kind, sortable, noIndex bool) []string {
	n := nameLen(alias) + 1 + args.Flag(sortable, 1) + args.Flag(noIndex, 1)
	b := args.New(n)
	putName(b, path, alias)
	b.Put(kind.String())
	if sortable {
		b.Put("SORTABLE")
	}
	if noIndex {
		b.Put("NOINDEX")
	}
	return b.Done()
}
