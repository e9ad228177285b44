// Package index compiles FT.CREATE index definitions.
package index

import (
	"errors"
	"strconv"
	"strings"

	"github.com/kailas-cloud/ftkit/internal/args"
	"github.com/kailas-cloud/ftkit/pkg/schema"
)

// StorageType defines the document storage backend (HASH or JSON).
type StorageType string

const (
	// StorageHash indexes Redis hashes.
	StorageHash StorageType = "HASH"
	// StorageJSON indexes JSON documents.
	StorageJSON StorageType = "JSON"
)

// options holds every clause the builder can set.
type options struct {
	storage         StorageType
	prefixes        []string
	filter          string
	language        schema.Language
	languageField   string
	score           *float64
	scoreField      string
	payloadField    string
	maxTextFields   bool
	temporary       int
	noOffsets       bool
	noHL            bool
	noFields        bool
	noFreqs         bool
	stopwords       []string
	stopwordsSet    bool
	skipInitialScan bool
}

// Definition is a compiled, immutable index definition:
// ON <type> PREFIX <n> <p..> [options] SCHEMA <fields..>.
type Definition struct {
	opts   options
	fields []schema.Field
	args   []string
}

// Args returns the argument list that follows the index name.
func (d *Definition) Args() []string { return d.args }

// Fields returns the schema fields in declaration order.
func (d *Definition) Fields() []schema.Field { return d.fields }

// Storage returns the indexed document type.
func (d *Definition) Storage() StorageType { return d.opts.storage }

// Prefixes returns the indexed key prefixes.
func (d *Definition) Prefixes() []string { return d.opts.prefixes }

// String returns a debug representation of the FT.CREATE arguments.
func (d *Definition) String() string {
	return "FT.CREATE <index> " + strings.Join(d.args, " ")
}

func (d *Definition) validate() error {
	if len(d.fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool, len(d.fields))
	for i, f := range d.fields {
		if f == nil {
			return errors.New("field is nil at index " + strconv.Itoa(i))
		}
		key := f.Identifier()
		if key == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if seen[key] {
			return errors.New("duplicate field name: " + key)
		}
		seen[key] = true

		if v, ok := f.(schema.Vector); ok && v.Dimension() <= 0 {
			return errors.New("vector field " + key + " requires positive DIM")
		}
	}
	if d.opts.temporary < 0 {
		return errors.New("temporary ttl must not be negative")
	}
	return nil
}

// compile computes the exact argument count, then fills it in protocol order.
func (d *Definition) compile() []string {
	o := &d.opts
	fieldArgs := 0
	for _, f := range d.fields {
		fieldArgs += len(f.Args())
	}

	n := 2 +
		args.Flag(len(o.prefixes) > 0, 2+len(o.prefixes)) +
		args.Flag(o.filter != "", 2) +
		args.Flag(o.language != schema.LanguageDefault, 2) +
		args.Flag(o.languageField != "", 2) +
		args.Flag(o.score != nil, 2) +
		args.Flag(o.scoreField != "", 2) +
		args.Flag(o.payloadField != "", 2) +
		args.Flag(o.maxTextFields, 1) +
		args.Flag(o.temporary > 0, 2) +
		args.Flag(o.noOffsets, 1) +
		args.Flag(o.noHL, 1) +
		args.Flag(o.noFields, 1) +
		args.Flag(o.noFreqs, 1) +
		args.Flag(o.stopwordsSet, 2+len(o.stopwords)) +
		args.Flag(o.skipInitialScan, 1) +
		1 + fieldArgs

	b := args.New(n)
	b.Put("ON", string(o.storage))
	if len(o.prefixes) > 0 {
		b.Put("PREFIX")
		b.PutCounted(o.prefixes)
	}
	if o.filter != "" {
		b.Put("FILTER", o.filter)
	}
	if o.language != schema.LanguageDefault {
		b.Put("LANGUAGE", o.language.String())
	}
	if o.languageField != "" {
		b.Put("LANGUAGE_FIELD", o.languageField)
	}
	if o.score != nil {
		b.Put("SCORE", args.Float(*o.score))
	}
	if o.scoreField != "" {
		b.Put("SCORE_FIELD", o.scoreField)
	}
	if o.payloadField != "" {
		b.Put("PAYLOAD_FIELD", o.payloadField)
	}
	if o.maxTextFields {
		b.Put("MAXTEXTFIELDS")
	}
	if o.temporary > 0 {
		b.Put("TEMPORARY")
		b.PutInt(o.temporary)
	}
	if o.noOffsets {
		b.Put("NOOFFSETS")
	}
	if o.noHL {
		b.Put("NOHL")
	}
	if o.noFields {
		b.Put("NOFIELDS")
	}
	if o.noFreqs {
		b.Put("NOFREQS")
	}
	if o.stopwordsSet {
		b.Put("STOPWORDS")
		b.PutCounted(o.stopwords)
	}
	if o.skipInitialScan {
		b.Put("SKIPINITIALSCAN")
	}
	b.Put("SCHEMA")
	for _, f := range d.fields {
		b.Put(f.Args()...)
	}
	return b.Done()
}

// AlterArgs returns "SCHEMA ADD <fields..>" for FT.ALTER.
func AlterArgs(fields ...schema.Field) ([]string, error) {
	if len(fields) == 0 {
		return nil, errors.New("at least one field is required")
	}
	n := 2
	for _, f := range fields {
		if f == nil {
			return nil, errors.New("field is nil")
		}
		n += len(f.Args())
	}
	b := args.New(n)
	b.Put("SCHEMA", "ADD")
	for _, f := range fields {
		b.Put(f.Args()...)
	}
	return b.Done(), nil
}
