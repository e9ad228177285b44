package result

import (
	"fmt"

	"github.com/kailas-cloud/ftkit/pkg/reply"
)

// DecodeStrings reads a flat array of scalars. A nil reply yields an empty slice.
func DecodeStrings(n reply.Node) ([]string, error) {
	items, err := n.AsArray()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, item := range items {
		if out[i], err = item.AsString(); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

// Suggestion is one FT.SUGGET completion.
type Suggestion struct {
	String  string
	Score   float64
	Payload string
}

// DecodeSuggestions reads [string, [score], [payload], ...].
func DecodeSuggestions(n reply.Node, withScores, withPayloads bool) ([]Suggestion, error) {
	items, err := n.AsArray()
	if err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	stride := 1
	if withScores {
		stride++
	}
	if withPayloads {
		stride++
	}
	out := make([]Suggestion, 0, len(items)/stride)
	for i := 0; i+stride <= len(items); i += stride {
		var s Suggestion
		if s.String, err = items[i].AsString(); err != nil {
			return nil, fmt.Errorf("decode suggestion: %w", err)
		}
		pos := i + 1
		if withScores {
			if s.Score, err = items[pos].AsFloat64(); err != nil {
				return nil, fmt.Errorf("decode suggestion score: %w", err)
			}
			pos++
		}
		if withPayloads {
			s.Payload = items[pos].Text()
		}
		out = append(out, s)
	}
	return out, nil
}

// SpellSuggestion is one correction candidate for a misspelled term.
type SpellSuggestion struct {
	Suggestion string
	Score      float64
}

// DecodeSpellCheck reads [["TERM", term, [[score, suggestion], ...]], ...]
// into term to candidates. Terms with no candidates map to an empty slice.
func DecodeSpellCheck(n reply.Node) (map[string][]SpellSuggestion, error) {
	items, err := n.AsArray()
	if err != nil {
		return nil, fmt.Errorf("decode spellcheck: %w", err)
	}
	out := make(map[string][]SpellSuggestion, len(items))
	for _, item := range items {
		entry, err := item.AsArray()
		if err != nil {
			return nil, fmt.Errorf("decode spellcheck entry: %w", err)
		}
		if len(entry) < 3 || entry[0].Text() != "TERM" {
			continue
		}
		term, err := entry[1].AsString()
		if err != nil {
			return nil, fmt.Errorf("decode spellcheck term: %w", err)
		}
		cands, err := entry[2].AsArray()
		if err != nil {
			return nil, fmt.Errorf("decode spellcheck candidates of %s: %w", term, err)
		}
		list := make([]SpellSuggestion, 0, len(cands))
		for _, c := range cands {
			score, err := c.At(0).AsFloat64()
			if err != nil {
				return nil, fmt.Errorf("decode spellcheck score of %s: %w", term, err)
			}
			list = append(list, SpellSuggestion{Suggestion: c.At(1).Text(), Score: score})
		}
		out[term] = list
	}
	return out, nil
}

// DecodeSynonyms reads [term, [group...], ...] into term to synonym group ids.
func DecodeSynonyms(n reply.Node) (map[string][]string, error) {
	out := make(map[string][]string)
	err := pairs(n, func(term string, v reply.Node) error {
		groups, err := DecodeStrings(v)
		out[term] = groups
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode synonyms: %w", err)
	}
	return out, nil
}

// DecodeConfig reads [[option, value], ...] into a map. Nil values become "".
func DecodeConfig(n reply.Node) (map[string]string, error) {
	items, err := n.AsArray()
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	out := make(map[string]string, len(items))
	for _, item := range items {
		if !item.IsArray() || item.Len() == 0 {
			return nil, fmt.Errorf("decode config: %w", &reply.ShapeError{Want: reply.TypeArray, Got: item.Type()})
		}
		name, err := item.At(0).AsString()
		if err != nil {
			return nil, fmt.Errorf("decode config name: %w", err)
		}
		out[name] = item.At(1).Text()
	}
	return out, nil
}
