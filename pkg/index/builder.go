package index

import "github.com/kailas-cloud/ftkit/pkg/schema"

// Builder is a fluent builder for index definitions.
type Builder struct {
	def Definition
}

// New starts building an index over hashes.
func New() *Builder {
	return &Builder{def: Definition{opts: options{storage: StorageHash}}}
}

// OnJSON indexes JSON documents.
func (b *Builder) OnJSON() *Builder {
	b.def.opts.storage = StorageJSON
	return b
}

// OnHash indexes hashes.
func (b *Builder) OnHash() *Builder {
	b.def.opts.storage = StorageHash
	return b
}

// Prefix adds key prefixes to the index.
func (b *Builder) Prefix(prefixes ...string) *Builder {
	b.def.opts.prefixes = append(b.def.opts.prefixes, prefixes...)
	return b
}

// Filter sets a filter expression documents must satisfy to be indexed.
func (b *Builder) Filter(expr string) *Builder {
	b.def.opts.filter = expr
	return b
}

// Language sets the default stemming language.
func (b *Builder) Language(l schema.Language) *Builder {
	b.def.opts.language = l
	return b
}

// LanguageField names the document field holding the per-document language.
func (b *Builder) LanguageField(field string) *Builder {
	b.def.opts.languageField = field
	return b
}

// Score sets the default document score (0..1).
func (b *Builder) Score(score float64) *Builder {
	b.def.opts.score = &score
	return b
}

// ScoreField names the document field holding the per-document score.
func (b *Builder) ScoreField(field string) *Builder {
	b.def.opts.scoreField = field
	return b
}

// PayloadField names the document field used as payload.
func (b *Builder) PayloadField(field string) *Builder {
	b.def.opts.payloadField = field
	return b
}

// MaxTextFields allows more than 32 TEXT fields.
func (b *Builder) MaxTextFields() *Builder {
	b.def.opts.maxTextFields = true
	return b
}

// Temporary makes the index expire after ttlSeconds of inactivity.
func (b *Builder) Temporary(ttlSeconds int) *Builder {
	b.def.opts.temporary = ttlSeconds
	return b
}

// NoOffsets disables term offsets.
func (b *Builder) NoOffsets() *Builder {
	b.def.opts.noOffsets = true
	return b
}

// NoHL disables highlighting support.
func (b *Builder) NoHL() *Builder {
	b.def.opts.noHL = true
	return b
}

// NoFields disables per-field bits.
func (b *Builder) NoFields() *Builder {
	b.def.opts.noFields = true
	return b
}

// NoFreqs disables term frequencies.
func (b *Builder) NoFreqs() *Builder {
	b.def.opts.noFreqs = true
	return b
}

// Stopwords replaces the default stop-word list. No arguments disables stop words.
func (b *Builder) Stopwords(words ...string) *Builder {
	b.def.opts.stopwords = words
	b.def.opts.stopwordsSet = true
	return b
}

// SkipInitialScan skips indexing of keys that already exist.
func (b *Builder) SkipInitialScan() *Builder {
	b.def.opts.skipInitialScan = true
	return b
}

// Field appends schema fields.
func (b *Builder) Field(fields ...schema.Field) *Builder {
	b.def.fields = append(b.def.fields, fields...)
	return b
}

// SchemaFor switches the index to JSON and appends the fields inferred from t.
func (b *Builder) SchemaFor(t *schema.TypeSpec) *Builder {
	b.def.opts.storage = StorageJSON
	b.def.fields = append(b.def.fields, schema.Infer(t)...)
	return b
}

// Build validates and compiles the definition.
func (b *Builder) Build() (*Definition, error) {
	if err := b.def.validate(); err != nil {
		return nil, err
	}
	def := &Definition{
		opts:   b.def.opts,
		fields: append([]schema.Field(nil), b.def.fields...),
	}
	def.opts.prefixes = append([]string(nil), b.def.opts.prefixes...)
	def.args = def.compile()
	return def, nil
}

// MustBuild calls Build and panics on error.
func (b *Builder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
