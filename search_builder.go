package ftkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/ftkit/pkg/mapper"
	"github.com/kailas-cloud/ftkit/pkg/query"
	"github.com/kailas-cloud/ftkit/pkg/result"
)

// Hit is a typed search result.
type Hit[T any] struct {
	Key  string
	Item T
	// Score is the relevance score for text search and the vector distance
	// for nearest-neighbour search.
	Score float64
}

// Page is one page of typed results.
type Page[T any] struct {
	Total int64
	Hits  []Hit[T]
}

// SearchBuilder is a fluent builder for typed search queries.
type SearchBuilder[T any] struct {
	idx *TypedIndex[T]

	text    string
	clauses []string
	numeric []query.NumericFilter
	geo     *query.GeoFilter

	sortBy  string
	order   query.Order
	sortSet bool
	offset  int
	num     int

	// Nearest-neighbour parameters.
	vecField string
	k        int
	vector   []byte
}

// Query sets the full-text part of the query. It is passed through unescaped.
func (b *SearchBuilder[T]) Query(q string) *SearchBuilder[T] {
	b.text = q
	return b
}

// Where adds a tag filter matching any of values.
func (b *SearchBuilder[T]) Where(field string, values ...string) *SearchBuilder[T] {
	b.clauses = append(b.clauses, query.TagMatch(field, values...))
	return b
}

// Range adds a numeric range filter.
func (b *SearchBuilder[T]) Range(f query.NumericFilter) *SearchBuilder[T] {
	b.numeric = append(b.numeric, f)
	return b
}

// Near restricts results to a geographic radius.
func (b *SearchBuilder[T]) Near(g query.GeoFilter) *SearchBuilder[T] {
	b.geo = &g
	return b
}

// SortBy orders text results by a sortable field. Ignored for nearest-neighbour
// search, which always orders by ascending distance.
func (b *SearchBuilder[T]) SortBy(field string, order query.Order) *SearchBuilder[T] {
	b.sortBy, b.order, b.sortSet = field, order, true
	return b
}

// Limit pages the results. The default page is the first 10.
func (b *SearchBuilder[T]) Limit(offset, num int) *SearchBuilder[T] {
	b.offset, b.num = offset, num
	return b
}

// Nearest switches to a k-nearest-neighbour search over a vector field. The
// text and filter parts become the prefilter.
func (b *SearchBuilder[T]) Nearest(field string, k int, vector []float32) *SearchBuilder[T] {
	b.vecField, b.k, b.vector = field, k, query.Float32Blob(vector)
	return b
}

// Build compiles the query without executing it.
func (b *SearchBuilder[T]) Build() (*query.Definition, string, error) {
	if b.vecField != "" {
		return b.buildKNN()
	}
	return b.buildText()
}

func (b *SearchBuilder[T]) buildText() (*query.Definition, string, error) {
	qb := query.New(b.expr(nil)).
		WithScores().
		Return(b.idx.labels...).
		Limit(b.offset, b.num).
		Dialect(b.idx.dialect)
	for _, f := range b.numeric {
		qb.Filter(f)
	}
	if b.geo != nil {
		qb.GeoFilter(*b.geo)
	}
	if b.sortSet {
		qb.SortBy(b.sortBy, b.order)
	}
	def, err := qb.Build()
	if err != nil {
		return nil, "", fmt.Errorf("build search: %w", err)
	}
	return def, "", nil
}

func (b *SearchBuilder[T]) buildKNN() (*query.Definition, string, error) {
	inline := make([]string, 0, len(b.numeric)+1)
	for _, f := range b.numeric {
		inline = append(inline, query.NumericMatch(f))
	}
	if b.geo != nil {
		inline = append(inline, query.GeoMatch(*b.geo))
	}

	kb := query.KNN(b.vecField, b.k, b.vector)
	if prefilter := b.expr(inline); prefilter != "*" {
		kb.Prefilter(prefilter)
	}
	dist := kb.DistanceField()
	def, err := kb.
		SortBy(query.Asc).
		Limit(b.offset, b.num).
		Return(append(append([]string(nil), b.idx.labels...), dist)...).
		Dialect(b.idx.dialect).
		Build()
	if err != nil {
		return nil, "", fmt.Errorf("build nearest search: %w", err)
	}
	return def, dist, nil
}

// expr joins the text query and filter clauses into one intersection.
func (b *SearchBuilder[T]) expr(extra []string) string {
	parts := make([]string, 0, 1+len(b.clauses)+len(extra))
	if t := strings.TrimSpace(b.text); t != "" && t != "*" {
		parts = append(parts, t)
	}
	parts = append(parts, b.clauses...)
	parts = append(parts, extra...)
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// Do executes the search and returns typed results.
func (b *SearchBuilder[T]) Do(ctx context.Context) (*Page[T], error) {
	def, distField, err := b.Build()
	if err != nil {
		return nil, err
	}
	res, err := b.idx.client.Search(ctx, b.idx.name, def)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", b.idx.name, err)
	}

	page := &Page[T]{Total: res.Total, Hits: make([]Hit[T], 0, res.Len())}
	for doc, err := range res.Documents() {
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", b.idx.name, err)
		}
		hit, err := b.toHit(doc, distField)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", b.idx.name, err)
		}
		page.Hits = append(page.Hits, hit)
	}
	return page, nil
}

func (b *SearchBuilder[T]) toHit(doc result.Document, distField string) (Hit[T], error) {
	item, err := mapper.Map[T](b.idx.client.registry, doc.Fields)
	if err != nil {
		return Hit[T]{}, fmt.Errorf("map %s: %w", doc.Key, err)
	}
	score := doc.Score
	if distField != "" {
		score = doc.Fields.Float64(distField)
	}
	return Hit[T]{Key: doc.Key, Item: item, Score: score}, nil
}
