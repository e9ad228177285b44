package result

import (
	"fmt"
	"iter"

	"github.com/kailas-cloud/ftkit/pkg/reply"
)

// Layout describes the per-document sections of an FT.SEARCH reply.
type Layout struct {
	NoContent    bool
	WithScores   bool
	WithPayloads bool
	WithSortKeys bool
}

// stride is the number of reply elements per document.
func (l Layout) stride() int {
	n := 1
	if l.WithScores {
		n++
	}
	if l.WithPayloads {
		n++
	}
	if l.WithSortKeys {
		n++
	}
	if !l.NoContent {
		n++
	}
	return n
}

// Document is one search hit.
type Document struct {
	Key         string
	Score       float64
	Explanation reply.Node
	Payload     string
	SortKey     string
	Fields      Fields
}

// SearchResult is a decoded FT.SEARCH reply. Documents are decoded on demand.
type SearchResult struct {
	// Total is the number of matching documents, which may exceed the page returned.
	Total  int64
	layout Layout
	items  []reply.Node
}

// DecodeSearch reads [total, (key, [score], [payload], [sortkey], [fields])...].
// A nil reply or a zero total yields an empty result.
func DecodeSearch(n reply.Node, layout Layout) (*SearchResult, error) {
	items, err := n.AsArray()
	if err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}
	if len(items) == 0 {
		return &SearchResult{layout: layout}, nil
	}
	total, err := items[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("decode search total: %w", err)
	}
	res := &SearchResult{Total: total, layout: layout}
	if total > 0 {
		res.items = items[1:]
	}
	return res, nil
}

// Len returns the number of documents in this page.
func (r *SearchResult) Len() int {
	return len(r.items) / r.layout.stride()
}

// Documents iterates the page, decoding each document as it is reached.
// Iteration can be restarted; each pass re-reads the reply. A shape error
// is yielded once and ends the pass.
func (r *SearchResult) Documents() iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		stride := r.layout.stride()
		for i := 0; i+stride <= len(r.items); i += stride {
			doc, err := r.decodeDocument(r.items[i : i+stride])
			if !yield(doc, err) || err != nil {
				return
			}
		}
	}
}

// Collect decodes every document of the page.
func (r *SearchResult) Collect() ([]Document, error) {
	docs := make([]Document, 0, r.Len())
	for doc, err := range r.Documents() {
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *SearchResult) decodeDocument(rec []reply.Node) (Document, error) {
	var doc Document
	key, err := rec[0].AsString()
	if err != nil {
		return Document{}, fmt.Errorf("decode document key: %w", err)
	}
	doc.Key = key
	pos := 1

	if r.layout.WithScores {
		score := rec[pos]
		// EXPLAINSCORE replies with [score, explanation].
		if score.IsArray() {
			doc.Explanation = score.At(1)
			score = score.At(0)
		}
		if doc.Score, err = score.AsFloat64(); err != nil {
			return Document{}, fmt.Errorf("decode score of %s: %w", key, err)
		}
		pos++
	}
	if r.layout.WithPayloads {
		doc.Payload = rec[pos].Text()
		pos++
	}
	if r.layout.WithSortKeys {
		doc.SortKey = rec[pos].Text()
		pos++
	}
	if !r.layout.NoContent {
		if doc.Fields, err = decodeFields(rec[pos]); err != nil {
			return Document{}, fmt.Errorf("decode fields of %s: %w", key, err)
		}
	}
	return doc, nil
}
