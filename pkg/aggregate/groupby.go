package aggregate

import (
	"errors"

	"github.com/kailas-cloud/ftkit/internal/args"
)

// GroupBy collects the properties and reductions of one GROUPBY stage.
type GroupBy struct {
	fields     []string
	reductions []Reduction
}

// NewGroupBy groups by the given properties. No properties groups everything into one row.
func NewGroupBy(fields ...string) *GroupBy {
	return &GroupBy{fields: append([]string(nil), fields...)}
}

// Reduce adds reductions in call order.
func (g *GroupBy) Reduce(r ...Reduction) *GroupBy {
	g.reductions = append(g.reductions, r...)
	return g
}

func (g *GroupBy) validate() error {
	for _, r := range g.reductions {
		if r.Fn.String() == "" {
			return errors.New("unknown reducer")
		}
	}
	return nil
}

// flatten renders GROUPBY n fields.. REDUCE ...
func (g *GroupBy) flatten() []string {
	n := 2 + len(g.fields)
	for _, r := range g.reductions {
		n += r.size()
	}
	w := args.New(n)
	w.Put("GROUPBY")
	w.PutCounted(g.fields)
	for _, r := range g.reductions {
		r.put(w)
	}
	return w.Done()
}
