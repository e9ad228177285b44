package ft

import (
	"context"
	"errors"
	"strconv"

	"github.com/kailas-cloud/ftkit/internal/args"
	"github.com/kailas-cloud/ftkit/pkg/result"
)

// SugAddOptions are the optional FT.SUGADD clauses.
type SugAddOptions struct {
	Incr    bool
	Payload string
}

// SugAdd adds s to the suggestion dictionary at key and returns the dictionary size.
func (c *Client) SugAdd(ctx context.Context, key, s string, score float64, opts SugAddOptions) (int64, error) {
	a := []string{key, s, args.Float(score)}
	if opts.Incr {
		a = append(a, "INCR")
	}
	if opts.Payload != "" {
		a = append(a, "PAYLOAD", opts.Payload)
	}
	n, err := c.run(ctx, OpSugAdd, key, a...)
	if err != nil {
		return 0, err
	}
	size, err := n.AsInt64()
	if err != nil {
		return 0, decodeErr(OpSugAdd, err)
	}
	return size, nil
}

// SugGetOptions are the optional FT.SUGGET clauses.
type SugGetOptions struct {
	Fuzzy        bool
	WithScores   bool
	WithPayloads bool
	Max          int
}

// SugGet returns completions for prefix.
func (c *Client) SugGet(ctx context.Context, key, prefix string, opts SugGetOptions) ([]result.Suggestion, error) {
	a := []string{key, prefix}
	if opts.Fuzzy {
		a = append(a, "FUZZY")
	}
	if opts.WithScores {
		a = append(a, "WITHSCORES")
	}
	if opts.WithPayloads {
		a = append(a, "WITHPAYLOADS")
	}
	if opts.Max > 0 {
		a = append(a, "MAX", strconv.Itoa(opts.Max))
	}
	n, err := c.run(ctx, OpSugGet, key, a...)
	if err != nil {
		return nil, err
	}
	sugs, err := result.DecodeSuggestions(n, opts.WithScores, opts.WithPayloads)
	if err != nil {
		return nil, decodeErr(OpSugGet, err)
	}
	return sugs, nil
}

// SugDel removes s and reports whether it existed.
func (c *Client) SugDel(ctx context.Context, key, s string) (bool, error) {
	n, err := c.run(ctx, OpSugDel, key, key, s)
	if err != nil {
		return false, err
	}
	v, err := n.AsInt64()
	if err != nil {
		return false, decodeErr(OpSugDel, err)
	}
	return v == 1, nil
}

// SugLen returns the size of the suggestion dictionary.
func (c *Client) SugLen(ctx context.Context, key string) (int64, error) {
	n, err := c.run(ctx, OpSugLen, key, key)
	if err != nil {
		return 0, err
	}
	v, err := n.AsInt64()
	if err != nil {
		return 0, decodeErr(OpSugLen, err)
	}
	return v, nil
}

// SynUpdate adds terms to synonym group groupID.
func (c *Client) SynUpdate(ctx context.Context, name, groupID string, skipInitialScan bool, terms ...string) error {
	if len(terms) == 0 {
		return errors.New("at least one term is required")
	}
	a := []string{name, groupID}
	if skipInitialScan {
		a = append(a, "SKIPINITIALSCAN")
	}
	a = append(a, terms...)
	return c.runOK(ctx, OpSynUpdate, name, a...)
}

// SynDump returns each term with the synonym groups it belongs to.
func (c *Client) SynDump(ctx context.Context, name string) (map[string][]string, error) {
	n, err := c.run(ctx, OpSynDump, name, name)
	if err != nil {
		return nil, err
	}
	syn, err := result.DecodeSynonyms(n)
	if err != nil {
		return nil, decodeErr(OpSynDump, err)
	}
	return syn, nil
}

// SpellCheckOptions are the optional FT.SPELLCHECK clauses.
type SpellCheckOptions struct {
	Distance int
	Include  []string
	Exclude  []string
	Dialect  int
}

// SpellCheck returns correction candidates for each misspelled term of q.
func (c *Client) SpellCheck(
	ctx context.Context, name, q string, opts SpellCheckOptions,
) (map[string][]result.SpellSuggestion, error) {
	a := []string{name, q}
	if opts.Distance > 0 {
		a = append(a, "DISTANCE", strconv.Itoa(opts.Distance))
	}
	for _, d := range opts.Include {
		a = append(a, "TERMS", "INCLUDE", d)
	}
	for _, d := range opts.Exclude {
		a = append(a, "TERMS", "EXCLUDE", d)
	}
	if opts.Dialect > 0 {
		a = append(a, "DIALECT", strconv.Itoa(opts.Dialect))
	}
	n, err := c.run(ctx, OpSpellCheck, name, a...)
	if err != nil {
		return nil, err
	}
	sc, err := result.DecodeSpellCheck(n)
	if err != nil {
		return nil, decodeErr(OpSpellCheck, err)
	}
	return sc, nil
}

// DictAdd adds terms to dict and returns how many were new.
func (c *Client) DictAdd(ctx context.Context, dict string, terms ...string) (int64, error) {
	return c.dictCount(ctx, OpDictAdd, dict, terms)
}

// DictDel removes terms from dict and returns how many were removed.
func (c *Client) DictDel(ctx context.Context, dict string, terms ...string) (int64, error) {
	return c.dictCount(ctx, OpDictDel, dict, terms)
}

func (c *Client) dictCount(ctx context.Context, op, dict string, terms []string) (int64, error) {
	if len(terms) == 0 {
		return 0, errors.New("at least one term is required")
	}
	n, err := c.run(ctx, op, dict, prepend(dict, terms)...)
	if err != nil {
		return 0, err
	}
	v, err := n.AsInt64()
	if err != nil {
		return 0, decodeErr(op, err)
	}
	return v, nil
}

// DictDump returns every term of dict.
func (c *Client) DictDump(ctx context.Context, dict string) ([]string, error) {
	n, err := c.run(ctx, OpDictDump, dict, dict)
	if err != nil {
		return nil, err
	}
	terms, err := result.DecodeStrings(n)
	if err != nil {
		return nil, decodeErr(OpDictDump, err)
	}
	return terms, nil
}
