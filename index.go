package ftkit

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/ftkit/pkg/ft"
	"github.com/kailas-cloud/ftkit/pkg/index"
	"github.com/kailas-cloud/ftkit/pkg/mapper"
	"github.com/kailas-cloud/ftkit/pkg/schema"
)

// TypedIndex is a JSON index whose schema is inferred from T's struct tags and
// whose search results are mapped back onto T.
type TypedIndex[T any] struct {
	name    string
	client  *Client
	def     *index.Definition
	labels  []string
	dialect int
}

// NewIndex creates a typed index handle. The schema is described once from T;
// mappings are registered for T unless T already has a table in the client's
// registry, in which case the existing table is used.
func NewIndex[T any](client *Client, name string, mappings []mapper.Mapping[T], opts ...IndexOption) (*TypedIndex[T], error) {
	if client == nil {
		return nil, errors.New("new index: client is required")
	}
	if name == "" {
		return nil, errors.New("new index: name is required")
	}
	cfg := indexConfig{prefix: name + ":", dialect: 2}
	for _, o := range opts {
		o(&cfg)
	}

	ts, err := schema.DescribeFor[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", name, err)
	}
	def, err := index.New().
		Prefix(cfg.prefix).
		SchemaFor(ts).
		Field(cfg.fields...).
		Build()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", name, err)
	}

	if len(mappings) > 0 {
		mapper.Register(client.registry, mappings...)
	}

	labels := make([]string, 0, len(def.Fields()))
	for _, f := range def.Fields() {
		if f.Kind() == schema.KindVector {
			continue
		}
		labels = append(labels, f.Identifier())
	}

	return &TypedIndex[T]{
		name:    name,
		client:  client,
		def:     def,
		labels:  labels,
		dialect: cfg.dialect,
	}, nil
}

// Name returns the index name.
func (idx *TypedIndex[T]) Name() string { return idx.name }

// Definition returns the compiled FT.CREATE definition.
func (idx *TypedIndex[T]) Definition() *index.Definition { return idx.def }

// Ensure creates the index if it does not exist (idempotent).
func (idx *TypedIndex[T]) Ensure(ctx context.Context) error {
	exists, err := idx.client.IndexExists(ctx, idx.name)
	if err != nil {
		return fmt.Errorf("ensure %q: %w", idx.name, err)
	}
	if exists {
		return nil
	}
	err = idx.client.CreateIndex(ctx, idx.name, idx.def)
	if err != nil && !errors.Is(err, ft.ErrIndexExists) {
		return fmt.Errorf("ensure %q: %w", idx.name, err)
	}
	return nil
}

// Drop removes the index, and its documents when deleteDocs is set.
func (idx *TypedIndex[T]) Drop(ctx context.Context, deleteDocs bool) error {
	if err := idx.client.DropIndex(ctx, idx.name, deleteDocs); err != nil {
		return fmt.Errorf("drop %q: %w", idx.name, err)
	}
	return nil
}

// Count returns the number of indexed documents.
func (idx *TypedIndex[T]) Count(ctx context.Context) (int64, error) {
	info, err := idx.client.Info(ctx, idx.name)
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", idx.name, err)
	}
	return info.NumDocs, nil
}

// Search returns a fluent search builder for this index.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx, num: 10}
}
