// Package aggregate compiles FT.AGGREGATE pipelines.
//
// Pipeline steps are queued as argument-producing closures and flattened once
// by Build, so the emitted clauses follow call order.
package aggregate

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/ftkit/pkg/query"
)

// Order is a sort direction.
type Order = query.Order

// Sort directions.
const (
	Asc  = query.Asc
	Desc = query.Desc
)

// SortField is one SORTBY key.
type SortField struct {
	Property string
	Order    Order
}

// By returns an ascending sort key.
func By(property string) SortField { return SortField{Property: property} }

// ByDesc returns a descending sort key.
func ByDesc(property string) SortField { return SortField{Property: property, Order: Desc} }

type step func() []string

// Definition is a compiled FT.AGGREGATE command. It is immutable.
type Definition struct {
	args   []string
	cursor bool
}

// Args returns the arguments following the index name, starting with the query string.
func (d *Definition) Args() []string { return d.args }

// WithCursor reports whether the reply is wrapped in a cursor envelope.
func (d *Definition) WithCursor() bool { return d.cursor }

func (d *Definition) String() string {
	return "FT.AGGREGATE <index> " + strings.Join(d.args, " ")
}

// Builder is a fluent FT.AGGREGATE builder.
type Builder struct {
	q        string
	verbatim bool
	steps    []step
	groups   []*GroupBy
	timeout  int
	cursor   *cursorOpts
	params   []query.Param
	dialect  int
	errs     []error
}

type cursorOpts struct {
	count   int
	maxIdle time.Duration
}

// New starts a pipeline over documents matching q.
func New(q string) *Builder {
	return &Builder{q: q}
}

func (b *Builder) enqueue(s step) *Builder {
	b.steps = append(b.steps, s)
	return b
}

func (b *Builder) fail(err error) *Builder {
	b.errs = append(b.errs, err)
	return b
}

// Verbatim disables stemming of query terms.
func (b *Builder) Verbatim() *Builder { b.verbatim = true; return b }

// Load loads document fields into the pipeline.
func (b *Builder) Load(fields ...string) *Builder {
	if len(fields) == 0 {
		return b.fail(errors.New("LOAD requires at least one field"))
	}
	fields = append([]string(nil), fields...)
	return b.enqueue(func() []string {
		out := make([]string, 2+len(fields))
		out[0] = "LOAD"
		out[1] = strconv.Itoa(len(fields))
		copy(out[2:], fields)
		return out
	})
}

// LoadAll loads every document field.
func (b *Builder) LoadAll() *Builder {
	return b.enqueue(func() []string { return []string{"LOAD", "*"} })
}

// GroupBy appends a GROUPBY stage.
func (b *Builder) GroupBy(g *GroupBy) *Builder {
	if g == nil {
		return b.fail(errors.New("GROUPBY is nil"))
	}
	b.groups = append(b.groups, g)
	return b.enqueue(g.flatten)
}

// SortBy appends a SORTBY stage. max > 0 adds MAX.
func (b *Builder) SortBy(maxResults int, fields ...SortField) *Builder {
	if len(fields) == 0 {
		return b.fail(errors.New("SORTBY requires at least one field"))
	}
	fields = append([]SortField(nil), fields...)
	return b.enqueue(func() []string {
		out := make([]string, 0, 2+2*len(fields)+2)
		out = append(out, "SORTBY", strconv.Itoa(2*len(fields)))
		for _, f := range fields {
			out = append(out, f.Property, f.Order.String())
		}
		if maxResults > 0 {
			out = append(out, "MAX", strconv.Itoa(maxResults))
		}
		return out
	})
}

// Apply appends an APPLY expr AS alias stage.
func (b *Builder) Apply(expr, alias string) *Builder {
	if expr == "" || alias == "" {
		return b.fail(errors.New("APPLY requires an expression and an alias"))
	}
	return b.enqueue(func() []string { return []string{"APPLY", expr, "AS", alias} })
}

// Limit appends a LIMIT stage.
func (b *Builder) Limit(offset, num int) *Builder {
	if offset < 0 || num < 0 {
		return b.fail(errors.New("limit offset and num must not be negative"))
	}
	return b.enqueue(func() []string {
		return []string{"LIMIT", strconv.Itoa(offset), strconv.Itoa(num)}
	})
}

// Filter appends a FILTER stage.
func (b *Builder) Filter(expr string) *Builder {
	if expr == "" {
		return b.fail(errors.New("FILTER requires an expression"))
	}
	return b.enqueue(func() []string { return []string{"FILTER", expr} })
}

// Timeout sets a per-query timeout in milliseconds.
func (b *Builder) Timeout(ms int) *Builder { b.timeout = ms; return b }

// WithCursor reads results through a cursor of count rows per batch. Zero
// values use the server defaults.
func (b *Builder) WithCursor(count int, maxIdle time.Duration) *Builder {
	b.cursor = &cursorOpts{count: count, maxIdle: maxIdle}
	return b
}

// Params binds a query parameter.
func (b *Builder) Params(name, value string) *Builder {
	b.params = append(b.params, query.Param{Name: name, Value: value})
	return b
}

// Dialect sets the query dialect.
func (b *Builder) Dialect(n int) *Builder { b.dialect = n; return b }

// Build flattens the queued steps into the command arguments.
func (b *Builder) Build() (*Definition, error) {
	if b.q == "" {
		return nil, errors.New("query string is required")
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	if b.timeout < 0 {
		return nil, errors.New("timeout must not be negative")
	}
	for _, g := range b.groups {
		if err := g.validate(); err != nil {
			return nil, err
		}
	}
	seen := make(map[string]bool, len(b.params))
	for _, p := range b.params {
		if p.Name == "" || seen[p.Name] {
			return nil, errors.New("invalid or duplicate param: " + strconv.Quote(p.Name))
		}
		seen[p.Name] = true
	}

	parts := make([][]string, 0, len(b.steps)+2)
	head := []string{b.q}
	if b.verbatim {
		head = append(head, "VERBATIM")
	}
	parts = append(parts, head)
	for _, s := range b.steps {
		parts = append(parts, s())
	}
	parts = append(parts, b.tail())

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]string, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return &Definition{args: out, cursor: b.cursor != nil}, nil
}

// MustBuild calls Build and panics on error.
func (b *Builder) MustBuild() *Definition {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func (b *Builder) tail() []string {
	var out []string
	if b.timeout > 0 {
		out = append(out, "TIMEOUT", strconv.Itoa(b.timeout))
	}
	if b.cursor != nil {
		out = append(out, "WITHCURSOR")
		if b.cursor.count > 0 {
			out = append(out, "COUNT", strconv.Itoa(b.cursor.count))
		}
		if b.cursor.maxIdle > 0 {
			out = append(out, "MAXIDLE", strconv.FormatInt(b.cursor.maxIdle.Milliseconds(), 10))
		}
	}
	if len(b.params) > 0 {
		out = append(out, "PARAMS", strconv.Itoa(2*len(b.params)))
		for _, p := range b.params {
			out = append(out, p.Name, p.Value)
		}
	}
	if b.dialect > 0 {
		out = append(out, "DIALECT", strconv.Itoa(b.dialect))
	}
	return out
}
