package schema

import (
	"slices"
	"strings"
)

// PropType classifies a property for inference.
type PropType int

// Property classes. Collection and Compound carry element information.
const (
	PropString PropType = iota
	PropBool
	PropNumber
	PropTime
	PropObject
	PropCompound
	PropCollection
)

// TypeSpec declares the indexable shape of a JSON document type.
type TypeSpec struct {
	// Name identifies the type for cycle detection; must be unique per type.
	Name string
	// NoIndexDefault makes properties NOINDEX unless they set Index explicitly.
	NoIndexDefault bool
	Properties     []Property
}

// Property is one member of a TypeSpec.
type Property struct {
	Name string
	Type PropType

	// Elem is the element type of a compound property or of a collection of
	// compound values.
	Elem *TypeSpec
	// ElemType classifies elements of a collection of primitives.
	ElemType PropType

	Ignore    bool
	ForceTag  bool
	Alias     string
	Separator string
	Phonetic  Phonetic
	Weight    float64
	Index     *bool // explicit index/no-index override
	Sortable  bool
}

// Infer walks t depth-first and returns the JSON-path schema fields needed to
// index documents of that type, in traversal order.
//
// A type already present in the current ancestor chain is not expanded again,
// so self- and mutually-referential types terminate. The guard is per branch:
// sibling branches may each expand the same type once.
func Infer(t *TypeSpec) []Field {
	if t == nil {
		return nil
	}
	w := walker{}
	w.walk(t, "$", nil, false, []string{t.Name})
	return w.fields
}

type walker struct {
	fields []Field
}

func (w *walker) walk(t *TypeSpec, path string, names []string, forceTag bool, chain []string) {
	for i := range t.Properties {
		p := &t.Properties[i]
		if p.Ignore {
			continue
		}
		propPath := path + "." + p.Name
		propNames := extend(names, p.Name)

		switch p.Type {
		case PropCollection:
			elemPath := propPath + "[*]"
			if p.Elem == nil {
				w.leaf(t, p, p.ElemType, elemPath, propNames, true, true)
				continue
			}
			if slices.Contains(chain, p.Elem.Name) {
				continue
			}
			w.walk(p.Elem, elemPath, propNames, true, extend(chain, p.Elem.Name))

		case PropCompound:
			if p.Elem == nil || slices.Contains(chain, p.Elem.Name) {
				continue
			}
			w.walk(p.Elem, propPath, propNames, forceTag, extend(chain, p.Elem.Name))

		default:
			w.leaf(t, p, p.Type, propPath, propNames, forceTag, false)
		}
	}
}

// leaf classifies one scalar. Explicit tags and primitive collection elements
// are always TAG; inside collections of compound values only non-numeric
// leaves become TAG.
func (w *walker) leaf(owner *TypeSpec, p *Property, typ PropType, path string, names []string, forceTag, elems bool) {
	alias := p.Alias
	if alias == "" {
		alias = strings.Join(names, "_")
	}

	noIndex := owner.NoIndexDefault
	if p.Index != nil {
		noIndex = !*p.Index
	}

	switch {
	case p.ForceTag || typ == PropBool || elems:
		w.fields = append(w.fields, &TagField{
			Path: path, Alias: alias, Separator: p.Separator,
			Sortable: p.Sortable, NoIndex: noIndex,
		})
	case typ == PropNumber || typ == PropTime:
		w.fields = append(w.fields, &NumericField{
			Path: path, Alias: alias, Sortable: p.Sortable, NoIndex: noIndex,
		})
	case forceTag:
		w.fields = append(w.fields, &TagField{
			Path: path, Alias: alias, Separator: p.Separator,
			Sortable: p.Sortable, NoIndex: noIndex,
		})
	default:
		w.fields = append(w.fields, &TextField{
			Path: path, Alias: alias, Weight: p.Weight, Phonetic: p.Phonetic,
			Sortable: p.Sortable, NoIndex: noIndex,
		})
	}
}

// extend returns s+v without sharing s's backing array between branches.
func extend(s []string, v string) []string {
	out := make([]string, len(s)+1)
	copy(out, s)
	out[len(s)] = v
	return out
}
