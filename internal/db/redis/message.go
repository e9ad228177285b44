package redis

import (
	"fmt"
	"sort"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/ftkit/pkg/reply"
)

// toNode converts a rueidis message tree into a reply tree.
func toNode(m *rueidis.RedisMessage) (reply.Node, error) {
	switch {
	case m.IsNil():
		return reply.Nil(), nil
	case m.IsInt64():
		v, err := m.ToInt64()
		if err != nil {
			return reply.Node{}, err
		}
		return reply.Int(v), nil
	case m.IsFloat64():
		v, err := m.ToFloat64()
		if err != nil {
			return reply.Node{}, err
		}
		return reply.Double(v), nil
	case m.IsBool():
		v, err := m.ToBool()
		if err != nil {
			return reply.Node{}, err
		}
		if v {
			return reply.Int(1), nil
		}
		return reply.Int(0), nil
	case m.IsArray():
		items, err := m.ToArray()
		if err != nil {
			return reply.Node{}, err
		}
		out := make([]reply.Node, len(items))
		for i := range items {
			if out[i], err = toNode(&items[i]); err != nil {
				return reply.Node{}, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return reply.Array(out...), nil
	case m.IsMap():
		return mapToNode(m)
	}

	// Nested error replies inside arrays are kept as text.
	if err := m.Error(); err != nil {
		return reply.Str(err.Error()), nil
	}
	s, err := m.ToString()
	if err != nil {
		return reply.Node{}, err
	}
	return reply.Str(s), nil
}

// mapToNode flattens a RESP3 map into label/value pairs with sorted labels.
func mapToNode(m *rueidis.RedisMessage) (reply.Node, error) {
	entries, err := m.ToMap()
	if err != nil {
		return reply.Node{}, err
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]reply.Node, 0, 2*len(keys))
	for _, k := range keys {
		v := entries[k]
		n, err := toNode(&v)
		if err != nil {
			return reply.Node{}, fmt.Errorf("key %s: %w", k, err)
		}
		out = append(out, reply.Str(k), n)
	}
	return reply.Array(out...), nil
}
