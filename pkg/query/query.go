// Package query compiles FT.SEARCH commands, including KNN and range vector queries.
package query

import (
	"errors"
	"strconv"
	"strings"

	"github.com/kailas-cloud/ftkit/internal/args"
	"github.com/kailas-cloud/ftkit/pkg/result"
	"github.com/kailas-cloud/ftkit/pkg/schema"
)

// Param is a named query parameter referenced as $name in the query string.
type Param struct {
	Name  string
	Value string
}

// Definition is a compiled FT.SEARCH command. It is immutable.
type Definition struct {
	args   []string
	layout result.Layout
}

// Args returns the arguments following the index name, starting with the query string.
func (d *Definition) Args() []string { return d.args }

// Layout describes how each document in the reply is laid out.
func (d *Definition) Layout() result.Layout { return d.layout }

// QueryString returns the compiled query string.
func (d *Definition) QueryString() string { return d.args[0] }

// String returns a debug representation of the command.
func (d *Definition) String() string {
	return "FT.SEARCH <index> " + strings.Join(d.args, " ")
}

// Builder is a fluent FT.SEARCH builder.
type Builder struct {
	q            string
	noContent    bool
	verbatim     bool
	noStopwords  bool
	withScores   bool
	withPayloads bool
	withSortKeys bool
	filters      []NumericFilter
	geo          *GeoFilter
	inKeys       []string
	inFields     []string
	ret          []string
	summarize    *Summarize
	highlight    *Highlight
	slop         *int
	timeout      int
	inOrder      bool
	language     schema.Language
	expander     string
	scorer       string
	explainScore bool
	payload      string
	sortBy       string
	sortOrder    Order
	offset, num  int
	limitSet     bool
	params       []Param
	dialect      int
}

// New starts a search for the query string q.
func New(q string) *Builder {
	return &Builder{q: q}
}

// NoContent returns document ids only.
func (b *Builder) NoContent() *Builder { b.noContent = true; return b }

// Verbatim disables stemming of query terms.
func (b *Builder) Verbatim() *Builder { b.verbatim = true; return b }

// NoStopwords disables stop-word filtering of the query.
func (b *Builder) NoStopwords() *Builder { b.noStopwords = true; return b }

// WithScores returns the relevance score of each document.
func (b *Builder) WithScores() *Builder { b.withScores = true; return b }

// WithPayloads returns document payloads.
func (b *Builder) WithPayloads() *Builder { b.withPayloads = true; return b }

// WithSortKeys returns the sort key of each document.
func (b *Builder) WithSortKeys() *Builder { b.withSortKeys = true; return b }

// Filter adds a numeric range filter. May be called repeatedly.
func (b *Builder) Filter(f NumericFilter) *Builder {
	b.filters = append(b.filters, f)
	return b
}

// GeoFilter sets the geographic radius filter. A later call replaces an earlier one.
func (b *Builder) GeoFilter(g GeoFilter) *Builder {
	b.geo = &g
	return b
}

// InKeys limits the search to the given document keys.
func (b *Builder) InKeys(keys ...string) *Builder {
	b.inKeys = append(b.inKeys, keys...)
	return b
}

// InFields limits text matching to the given fields.
func (b *Builder) InFields(fields ...string) *Builder {
	b.inFields = append(b.inFields, fields...)
	return b
}

// Return limits the returned document fields.
func (b *Builder) Return(fields ...string) *Builder {
	b.ret = append(b.ret, fields...)
	return b
}

// Summarize attaches a SUMMARIZE block.
func (b *Builder) Summarize(s *Summarize) *Builder { b.summarize = s; return b }

// Highlight attaches a HIGHLIGHT block.
func (b *Builder) Highlight(h *Highlight) *Builder { b.highlight = h; return b }

// Slop sets the number of intervening terms allowed between phrase terms.
func (b *Builder) Slop(n int) *Builder { b.slop = &n; return b }

// Timeout sets a per-query timeout in milliseconds.
func (b *Builder) Timeout(ms int) *Builder { b.timeout = ms; return b }

// InOrder requires phrase terms to appear in query order.
func (b *Builder) InOrder() *Builder { b.inOrder = true; return b }

// Language sets the stemming language of the query.
func (b *Builder) Language(l schema.Language) *Builder { b.language = l; return b }

// Expander sets a custom query expander.
func (b *Builder) Expander(name string) *Builder { b.expander = name; return b }

// Scorer sets a custom scoring function.
func (b *Builder) Scorer(name string) *Builder { b.scorer = name; return b }

// ExplainScore returns a textual explanation with each score. Requires WithScores.
func (b *Builder) ExplainScore() *Builder { b.explainScore = true; return b }

// Payload passes a payload to the scoring function.
func (b *Builder) Payload(p string) *Builder { b.payload = p; return b }

// SortBy orders results by a sortable field.
func (b *Builder) SortBy(field string, order Order) *Builder {
	b.sortBy = field
	b.sortOrder = order
	return b
}

// Limit pages the results.
func (b *Builder) Limit(offset, num int) *Builder {
	b.offset, b.num, b.limitSet = offset, num, true
	return b
}

// Params binds a query parameter.
func (b *Builder) Params(name, value string) *Builder {
	b.params = append(b.params, Param{Name: name, Value: value})
	return b
}

// Dialect sets the query dialect.
func (b *Builder) Dialect(n int) *Builder { b.dialect = n; return b }

// Build validates and compiles the search.
func (b *Builder) Build() (*Definition, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &Definition{
		args: b.compile(),
		layout: result.Layout{
			NoContent:    b.noContent,
			WithScores:   b.withScores,
			WithPayloads: b.withPayloads,
			WithSortKeys: b.withSortKeys,
		},
	}, nil
}

// MustBuild calls Build and panics on error.
func (b *Builder) MustBuild() *Definition {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func (b *Builder) validate() error {
	if b.q == "" {
		return errors.New("query string is required")
	}
	for _, f := range b.filters {
		if err := f.validate(); err != nil {
			return err
		}
	}
	if b.geo != nil {
		if err := b.geo.validate(); err != nil {
			return err
		}
	}
	if b.slop != nil && *b.slop < 0 {
		return errors.New("slop must not be negative")
	}
	if b.timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if b.explainScore && !b.withScores {
		return errors.New("EXPLAINSCORE requires WITHSCORES")
	}
	if b.limitSet && (b.offset < 0 || b.num < 0) {
		return errors.New("limit offset and num must not be negative")
	}
	if b.dialect < 0 {
		return errors.New("dialect must not be negative")
	}
	return validateParams(b.params)
}

func validateParams(params []Param) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p.Name == "" {
			return errors.New("param name is required")
		}
		if seen[p.Name] {
			return errors.New("duplicate param: " + p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func (b *Builder) compile() []string {
	var summarize, highlight []string
	if b.summarize != nil {
		summarize = b.summarize.Args()
	}
	if b.highlight != nil {
		highlight = b.highlight.Args()
	}

	n := 1 +
		args.Flag(b.noContent, 1) +
		args.Flag(b.verbatim, 1) +
		args.Flag(b.noStopwords, 1) +
		args.Flag(b.withScores, 1) +
		args.Flag(b.withPayloads, 1) +
		args.Flag(b.withSortKeys, 1) +
		4*len(b.filters) +
		args.Flag(b.geo != nil, 6) +
		args.Flag(len(b.inKeys) > 0, 2+len(b.inKeys)) +
		args.Flag(len(b.inFields) > 0, 2+len(b.inFields)) +
		args.Flag(len(b.ret) > 0, 2+len(b.ret)) +
		len(summarize) +
		len(highlight) +
		args.Flag(b.slop != nil, 2) +
		args.Flag(b.timeout > 0, 2) +
		args.Flag(b.inOrder, 1) +
		args.Flag(b.language != schema.LanguageDefault, 2) +
		args.Flag(b.expander != "", 2) +
		args.Flag(b.scorer != "", 2) +
		args.Flag(b.explainScore, 1) +
		args.Flag(b.payload != "", 2) +
		args.Flag(b.sortBy != "", 3) +
		args.Flag(b.limitSet, 3) +
		args.Flag(len(b.params) > 0, 2+2*len(b.params)) +
		args.Flag(b.dialect > 0, 2)

	w := args.New(n)
	w.Put(b.q)
	if b.noContent {
		w.Put("NOCONTENT")
	}
	if b.verbatim {
		w.Put("VERBATIM")
	}
	if b.noStopwords {
		w.Put("NOSTOPWORDS")
	}
	if b.withScores {
		w.Put("WITHSCORES")
	}
	if b.withPayloads {
		w.Put("WITHPAYLOADS")
	}
	if b.withSortKeys {
		w.Put("WITHSORTKEYS")
	}
	for _, f := range b.filters {
		f.put(w)
	}
	if b.geo != nil {
		b.geo.put(w)
	}
	if len(b.inKeys) > 0 {
		w.Put("INKEYS")
		w.PutCounted(b.inKeys)
	}
	if len(b.inFields) > 0 {
		w.Put("INFIELDS")
		w.PutCounted(b.inFields)
	}
	if len(b.ret) > 0 {
		w.Put("RETURN")
		w.PutCounted(b.ret)
	}
	w.Put(summarize...)
	w.Put(highlight...)
	if b.slop != nil {
		w.Put("SLOP")
		w.PutInt(*b.slop)
	}
	if b.timeout > 0 {
		w.Put("TIMEOUT")
		w.PutInt(b.timeout)
	}
	if b.inOrder {
		w.Put("INORDER")
	}
	if b.language != schema.LanguageDefault {
		w.Put("LANGUAGE", b.language.String())
	}
	if b.expander != "" {
		w.Put("EXPANDER", b.expander)
	}
	if b.scorer != "" {
		w.Put("SCORER", b.scorer)
	}
	if b.explainScore {
		w.Put("EXPLAINSCORE")
	}
	if b.payload != "" {
		w.Put("PAYLOAD", b.payload)
	}
	if b.sortBy != "" {
		w.Put("SORTBY", b.sortBy, b.sortOrder.String())
	}
	if b.limitSet {
		putLimit(w, b.offset, b.num)
	}
	putParams(w, b.params)
	if b.dialect > 0 {
		w.Put("DIALECT")
		w.PutInt(b.dialect)
	}
	return w.Done()
}

func putLimit(w *args.Buffer, offset, num int) {
	w.Put("LIMIT", strconv.Itoa(offset), strconv.Itoa(num))
}

func putParams(w *args.Buffer, params []Param) {
	if len(params) == 0 {
		return
	}
	w.Put("PARAMS")
	w.PutInt(2 * len(params))
	for _, p := range params {
		w.Put(p.Name, p.Value)
	}
}
