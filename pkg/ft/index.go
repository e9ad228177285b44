package ft

import (
	"context"
	"errors"
	"strconv"

	"github.com/kailas-cloud/ftkit/pkg/index"
	"github.com/kailas-cloud/ftkit/pkg/result"
	"github.com/kailas-cloud/ftkit/pkg/schema"
)

// CreateIndex creates index name from def.
func (c *Client) CreateIndex(ctx context.Context, name string, def *index.Definition) error {
	if name == "" {
		return errors.New("index name is required")
	}
	if def == nil {
		return errors.New("index definition is required")
	}
	return c.runOK(ctx, OpCreate, name, prepend(name, def.Args())...)
}

// AlterSchemaAdd adds fields to an existing index.
func (c *Client) AlterSchemaAdd(ctx context.Context, name string, fields ...schema.Field) error {
	a, err := index.AlterArgs(fields...)
	if err != nil {
		return err
	}
	return c.runOK(ctx, OpAlter, name, prepend(name, a)...)
}

// DropIndex removes an index. deleteDocs also deletes the indexed documents.
func (c *Client) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	if deleteDocs {
		return c.runOK(ctx, OpDropIndex, name, name, "DD")
	}
	return c.runOK(ctx, OpDropIndex, name, name)
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	_, err := c.run(ctx, OpInfo, name, name)
	if errors.Is(err, ErrIndexNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Info returns index metadata and statistics.
func (c *Client) Info(ctx context.Context, name string) (*result.Info, error) {
	n, err := c.run(ctx, OpInfo, name, name)
	if err != nil {
		return nil, err
	}
	info, err := result.DecodeInfo(n)
	if err != nil {
		return nil, decodeErr(OpInfo, err)
	}
	return info, nil
}

// List returns the names of all indexes.
func (c *Client) List(ctx context.Context) ([]string, error) {
	n, err := c.run(ctx, OpList, "")
	if err != nil {
		return nil, err
	}
	names, err := result.DecodeStrings(n)
	if err != nil {
		return nil, decodeErr(OpList, err)
	}
	return names, nil
}

// Explain returns the execution plan of q.
func (c *Client) Explain(ctx context.Context, name, q string, dialect int) (string, error) {
	a := []string{name, q}
	if dialect > 0 {
		a = append(a, "DIALECT", strconv.Itoa(dialect))
	}
	n, err := c.run(ctx, OpExplain, name, a...)
	if err != nil {
		return "", err
	}
	plan, err := n.AsString()
	if err != nil {
		return "", decodeErr(OpExplain, err)
	}
	return plan, nil
}

// AliasAdd points alias at index.
func (c *Client) AliasAdd(ctx context.Context, alias, name string) error {
	return c.runOK(ctx, OpAliasAdd, name, alias, name)
}

// AliasUpdate moves alias to index, removing it from any previous index.
func (c *Client) AliasUpdate(ctx context.Context, alias, name string) error {
	return c.runOK(ctx, OpAliasUpdate, name, alias, name)
}

// AliasDel removes alias.
func (c *Client) AliasDel(ctx context.Context, alias string) error {
	return c.runOK(ctx, OpAliasDel, alias, alias)
}

// TagVals returns the distinct values of a TAG field.
func (c *Client) TagVals(ctx context.Context, name, field string) ([]string, error) {
	n, err := c.run(ctx, OpTagVals, name, name, field)
	if err != nil {
		return nil, err
	}
	vals, err := result.DecodeStrings(n)
	if err != nil {
		return nil, decodeErr(OpTagVals, err)
	}
	return vals, nil
}

func prepend(first string, rest []string) []string {
	out := make([]string, 0, 1+len(rest))
	out = append(out, first)
	return append(out, rest...)
}
