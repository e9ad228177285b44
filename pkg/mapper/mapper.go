// Package mapper projects decoded results onto caller-defined types through
// explicitly registered label mappings.
package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/kailas-cloud/ftkit/pkg/reply"
	"github.com/kailas-cloud/ftkit/pkg/result"
)

// ErrMappingNotConfigured is returned when no mapping is registered for a type.
var ErrMappingNotConfigured = errors.New("mapping not configured")

// Mapping copies one reply label into a destination of type T.
type Mapping[T any] struct {
	Label string
	apply func(*T, reply.Node) error
}

// Field declares that label is converted with convert and stored with set.
// A missing label leaves the destination untouched.
func Field[T, V any](label string, set func(*T, V), convert func(reply.Node) (V, error)) Mapping[T] {
	return Mapping[T]{
		Label: label,
		apply: func(dst *T, n reply.Node) error {
			if n.IsNil() {
				return nil
			}
			v, err := convert(n)
			if err != nil {
				return fmt.Errorf("field %s: %w", label, err)
			}
			set(dst, v)
			return nil
		},
	}
}

// Registry holds at most one mapping table per destination type. Tables are
// never replaced or evicted once registered. The zero value is ready to use.
type Registry struct {
	mu     sync.RWMutex
	tables map[reflect.Type]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register stores the mapping table for T. Only the first registration for a
// type takes effect; it reports whether this call was that one.
func Register[T any](r *Registry, mappings ...Mapping[T]) bool {
	t := reflect.TypeFor[T]()
	table := append([]Mapping[T](nil), mappings...)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tables == nil {
		r.tables = make(map[reflect.Type]any)
	}
	if _, ok := r.tables[t]; ok {
		return false
	}
	r.tables[t] = table
	return true
}

// Registered reports whether a mapping table exists for T.
func Registered[T any](r *Registry) bool {
	_, err := lookup[T](r)
	return err == nil
}

func lookup[T any](r *Registry) ([]Mapping[T], error) {
	t := reflect.TypeFor[T]()
	r.mu.RLock()
	table, ok := r.tables[t]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", t, ErrMappingNotConfigured)
	}
	return table.([]Mapping[T]), nil
}

// Map projects one field set onto a new T.
func Map[T any](r *Registry, f result.Fields) (T, error) {
	var dst T
	table, err := lookup[T](r)
	if err != nil {
		return dst, err
	}
	err = apply(table, &dst, f)
	return dst, err
}

func apply[T any](table []Mapping[T], dst *T, f result.Fields) error {
	for _, m := range table {
		if err := m.apply(dst, f.Get(m.Label)); err != nil {
			return err
		}
	}
	return nil
}

// MapSearch projects every document of a search result.
func MapSearch[T any](r *Registry, res *result.SearchResult) ([]T, error) {
	table, err := lookup[T](r)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, res.Len())
	for doc, err := range res.Documents() {
		if err != nil {
			return nil, err
		}
		var dst T
		if err := apply(table, &dst, doc.Fields); err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.Key, err)
		}
		out = append(out, dst)
	}
	return out, nil
}

// MapAggregate projects every row of an aggregate result.
func MapAggregate[T any](r *Registry, res *result.AggregateResult) ([]T, error) {
	table, err := lookup[T](r)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, res.Len())
	for row, err := range res.Rows() {
		if err != nil {
			return nil, err
		}
		var dst T
		if err := apply(table, &dst, row); err != nil {
			return nil, err
		}
		out = append(out, dst)
	}
	return out, nil
}
