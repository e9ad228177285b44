// Package result decodes reply trees into search, aggregate and index-info results.
//
// Decoders walk the flat label/value sequences of a reply and switch on the
// label. Unknown labels are skipped, so newer servers that add labels still decode.
package result

import (
	"github.com/kailas-cloud/ftkit/pkg/reply"
)

// Fields is an ordered label to value association. Lookups that miss return
// the zero value instead of failing.
type Fields struct {
	keys   []string
	values []reply.Node
	index  map[string]int
}

// NewFields builds Fields from alternating label/value pairs. A trailing label
// without a value is dropped. When a label repeats, the first occurrence wins.
func NewFields(pairs ...string) Fields {
	nodes := make([]reply.Node, len(pairs))
	for i, p := range pairs {
		nodes[i] = reply.Str(p)
	}
	f, _ := decodeFields(reply.Array(nodes...))
	return f
}

// decodeFields reads a [label, value, label, value, ...] array.
func decodeFields(n reply.Node) (Fields, error) {
	items, err := n.AsArray()
	if err != nil {
		return Fields{}, err
	}
	pairs := len(items) / 2
	f := Fields{
		keys:   make([]string, 0, pairs),
		values: make([]reply.Node, 0, pairs),
		index:  make(map[string]int, pairs),
	}
	for i := 0; i+1 < len(items); i += 2 {
		key, err := items[i].AsString()
		if err != nil {
			return Fields{}, err
		}
		if _, dup := f.index[key]; dup {
			continue
		}
		f.index[key] = len(f.keys)
		f.keys = append(f.keys, key)
		f.values = append(f.values, items[i+1])
	}
	return f, nil
}

// Len returns the number of labels.
func (f Fields) Len() int { return len(f.keys) }

// Keys returns the labels in first-seen order.
func (f Fields) Keys() []string { return f.keys }

// Has reports whether key is present.
func (f Fields) Has(key string) bool {
	_, ok := f.index[key]
	return ok
}

// Get returns the value for key, or a nil node when absent.
func (f Fields) Get(key string) reply.Node {
	i, ok := f.index[key]
	if !ok {
		return reply.Nil()
	}
	return f.values[i]
}

// At returns the i-th value, or a nil node when out of range.
func (f Fields) At(i int) reply.Node {
	if i < 0 || i >= len(f.values) {
		return reply.Nil()
	}
	return f.values[i]
}

// String returns the scalar value for key, or "" when absent.
func (f Fields) String(key string) string {
	return f.Get(key).Text()
}

// Int64 returns the integer value for key, or 0 when absent or not numeric.
func (f Fields) Int64(key string) int64 {
	v, err := f.Get(key).AsInt64()
	if err != nil {
		return 0
	}
	return v
}

// Float64 returns the numeric value for key, or 0 when absent or not numeric.
func (f Fields) Float64(key string) float64 {
	v, err := f.Get(key).AsFloat64()
	if err != nil {
		return 0
	}
	return v
}

// Map copies the scalar values into a plain map.
func (f Fields) Map() map[string]string {
	m := make(map[string]string, len(f.keys))
	for i, k := range f.keys {
		m[k] = f.values[i].Text()
	}
	return m
}
