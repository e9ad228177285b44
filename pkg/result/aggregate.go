package result

import (
	"fmt"
	"iter"

	"github.com/kailas-cloud/ftkit/pkg/reply"
)

// AggregateResult is a decoded FT.AGGREGATE or FT.CURSOR READ reply.
type AggregateResult struct {
	Total int64
	// CursorID is non-zero while more batches can be read.
	CursorID int64
	rows     []reply.Node
}

// DecodeAggregate reads [total, row...]. With a cursor the reply is wrapped
// as [[total, row...], cursorID].
func DecodeAggregate(n reply.Node, withCursor bool) (*AggregateResult, error) {
	if n.IsNil() {
		return &AggregateResult{}, nil
	}
	var cursorID int64
	if withCursor {
		envelope, err := n.AsArray()
		if err != nil {
			return nil, fmt.Errorf("decode cursor envelope: %w", err)
		}
		if len(envelope) != 2 {
			return nil, fmt.Errorf("decode cursor envelope: %w", &reply.ShapeError{
				Want: reply.TypeArray, Got: n.Type(), Note: fmt.Sprintf("%d elements", len(envelope)),
			})
		}
		if cursorID, err = envelope[1].AsInt64(); err != nil {
			return nil, fmt.Errorf("decode cursor id: %w", err)
		}
		n = envelope[0]
	}

	items, err := n.AsArray()
	if err != nil {
		return nil, fmt.Errorf("decode aggregate: %w", err)
	}
	res := &AggregateResult{CursorID: cursorID}
	if len(items) == 0 {
		return res, nil
	}
	if res.Total, err = items[0].AsInt64(); err != nil {
		return nil, fmt.Errorf("decode aggregate total: %w", err)
	}
	res.rows = items[1:]
	return res, nil
}

// Len returns the number of rows in this batch.
func (r *AggregateResult) Len() int { return len(r.rows) }

// Rows iterates the batch, decoding each row as it is reached. Iteration can
// be restarted. A shape error is yielded once and ends the pass.
func (r *AggregateResult) Rows() iter.Seq2[Fields, error] {
	return func(yield func(Fields, error) bool) {
		for i, row := range r.rows {
			f, err := decodeFields(row)
			if err != nil {
				err = fmt.Errorf("decode aggregate row %d: %w", i, err)
			}
			if !yield(f, err) || err != nil {
				return
			}
		}
	}
}

// Collect decodes every row of the batch.
func (r *AggregateResult) Collect() ([]Fields, error) {
	rows := make([]Fields, 0, len(r.rows))
	for f, err := range r.Rows() {
		if err != nil {
			return nil, err
		}
		rows = append(rows, f)
	}
	return rows, nil
}
