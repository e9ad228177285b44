package ft

import (
	"context"
	"errors"
	"strconv"

	"github.com/kailas-cloud/ftkit/pkg/aggregate"
	"github.com/kailas-cloud/ftkit/pkg/query"
	"github.com/kailas-cloud/ftkit/pkg/result"
)

// Search runs a compiled FT.SEARCH against index name.
func (c *Client) Search(ctx context.Context, name string, def *query.Definition) (*result.SearchResult, error) {
	if def == nil {
		return nil, errors.New("query definition is required")
	}
	n, err := c.run(ctx, OpSearch, name, prepend(name, def.Args())...)
	if err != nil {
		return nil, err
	}
	res, err := result.DecodeSearch(n, def.Layout())
	if err != nil {
		return nil, decodeErr(OpSearch, err)
	}
	return res, nil
}

// Aggregate runs a compiled FT.AGGREGATE against index name.
func (c *Client) Aggregate(ctx context.Context, name string, def *aggregate.Definition) (*result.AggregateResult, error) {
	if def == nil {
		return nil, errors.New("aggregate definition is required")
	}
	n, err := c.run(ctx, OpAggregate, name, prepend(name, def.Args())...)
	if err != nil {
		return nil, err
	}
	res, err := result.DecodeAggregate(n, def.WithCursor())
	if err != nil {
		return nil, decodeErr(OpAggregate, err)
	}
	return res, nil
}

// CursorRead reads the next batch of an aggregate cursor. count <= 0 uses the
// cursor's own batch size. A zero CursorID in the result means the cursor is exhausted.
func (c *Client) CursorRead(ctx context.Context, name string, cursorID int64, count int) (*result.AggregateResult, error) {
	a := []string{name, strconv.FormatInt(cursorID, 10)}
	if count > 0 {
		a = append(a, "COUNT", strconv.Itoa(count))
	}
	n, err := c.run(ctx, OpCursorRead, name, a...)
	if err != nil {
		return nil, err
	}
	res, err := result.DecodeAggregate(n, true)
	if err != nil {
		return nil, decodeErr(OpCursorRead, err)
	}
	return res, nil
}

// CursorDel discards an aggregate cursor.
func (c *Client) CursorDel(ctx context.Context, name string, cursorID int64) error {
	return c.runOK(ctx, OpCursorDel, name, name, strconv.FormatInt(cursorID, 10))
}
