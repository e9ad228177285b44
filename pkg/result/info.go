package result

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/ftkit/pkg/reply"
)

// attributeFlags are the bare attribute markers that carry no value.
var attributeFlags = map[string]bool{
	"SORTABLE":       true,
	"UNF":            true,
	"NOSTEM":         true,
	"NOINDEX":        true,
	"CASESENSITIVE":  true,
	"WITHSUFFIXTRIE": true,
	"INDEXEMPTY":     true,
	"INDEXMISSING":   true,
}

// Info is a decoded FT.INFO reply.
type Info struct {
	IndexName    string
	IndexOptions []string
	Definition   IndexDefinition
	Attributes   []Attribute

	NumDocs                  int64
	MaxDocID                 int64
	NumTerms                 int64
	NumRecords               int64
	InvertedSizeMB           float64
	VectorIndexSizeMB        float64
	TotalInvertedIndexBlocks int64
	OffsetVectorsSizeMB      float64
	DocTableSizeMB           float64
	SortableValuesSizeMB     float64
	KeyTableSizeMB           float64
	RecordsPerDocAvg         float64
	BytesPerRecordAvg        float64
	OffsetsPerTermAvg        float64
	OffsetBitsPerRecordAvg   float64
	HashIndexingFailures     int64
	TotalIndexingTime        float64
	Indexing                 bool
	PercentIndexed           float64
	NumberOfUses             int64
	Cleaning                 int64

	GCStats      GCStats
	CursorStats  CursorStats
	DialectStats map[string]int64
	Stopwords    []string
}

// IndexDefinition is the index_definition section of FT.INFO.
type IndexDefinition struct {
	KeyType       string
	Prefixes      []string
	Filter        string
	Language      string
	LanguageField string
	DefaultScore  float64
	ScoreField    string
	PayloadField  string
	IndexesAll    bool
}

// Attribute describes one indexed field.
type Attribute struct {
	Identifier string
	Name       string
	Type       string
	Flags      []string
	// Options holds valued settings such as WEIGHT or SEPARATOR. Values are
	// strings, []any or map[string]any depending on the reply shape.
	Options map[string]any
}

// HasFlag reports whether the attribute carries flag, e.g. SORTABLE.
func (a Attribute) HasFlag(flag string) bool {
	for _, f := range a.Flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}

// Option returns the scalar option value for key, or "".
func (a Attribute) Option(key string) string {
	s, _ := a.Options[key].(string)
	return s
}

// GCStats is the gc_stats section of FT.INFO.
type GCStats struct {
	BytesCollected     int64
	TotalMSRun         float64
	TotalCycles        int64
	AverageCycleTimeMS float64
	LastRunTimeMS      float64
	NumericTreesMissed int64
	BlocksDenied       int64
}

// CursorStats is the cursor_stats section of FT.INFO.
type CursorStats struct {
	GlobalIdle    int64
	GlobalTotal   int64
	IndexCapacity int64
	IndexTotal    int64
}

// pairs walks a [label, value, ...] array, calling fn for each label.
// A trailing label without a value is ignored.
func pairs(n reply.Node, fn func(label string, v reply.Node) error) error {
	items, err := n.AsArray()
	if err != nil {
		return err
	}
	for i := 0; i+1 < len(items); i += 2 {
		label, err := items[i].AsString()
		if err != nil {
			return err
		}
		if err := fn(label, items[i+1]); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
	}
	return nil
}

// DecodeInfo reads an FT.INFO reply. Unknown labels are skipped.
func DecodeInfo(n reply.Node) (*Info, error) {
	info := &Info{}
	err := pairs(n, func(label string, v reply.Node) error {
		var err error
		switch label {
		case "index_name":
			info.IndexName, err = v.AsString()
		case "index_options":
			info.IndexOptions, err = DecodeStrings(v)
		case "index_definition":
			info.Definition, err = decodeDefinition(v)
		case "attributes", "fields":
			info.Attributes, err = decodeAttributes(v)
		case "num_docs":
			info.NumDocs, err = v.AsInt64()
		case "max_doc_id":
			info.MaxDocID, err = v.AsInt64()
		case "num_terms":
			info.NumTerms, err = v.AsInt64()
		case "num_records":
			info.NumRecords, err = v.AsInt64()
		case "inverted_sz_mb":
			info.InvertedSizeMB, err = v.AsFloat64()
		case "vector_index_sz_mb":
			info.VectorIndexSizeMB, err = v.AsFloat64()
		case "total_inverted_index_blocks":
			info.TotalInvertedIndexBlocks, err = v.AsInt64()
		case "offset_vectors_sz_mb":
			info.OffsetVectorsSizeMB, err = v.AsFloat64()
		case "doc_table_size_mb":
			info.DocTableSizeMB, err = v.AsFloat64()
		case "sortable_values_size_mb":
			info.SortableValuesSizeMB, err = v.AsFloat64()
		case "key_table_size_mb":
			info.KeyTableSizeMB, err = v.AsFloat64()
		case "records_per_doc_avg":
			info.RecordsPerDocAvg, err = v.AsFloat64()
		case "bytes_per_record_avg":
			info.BytesPerRecordAvg, err = v.AsFloat64()
		case "offsets_per_term_avg":
			info.OffsetsPerTermAvg, err = v.AsFloat64()
		case "offset_bits_per_record_avg":
			info.OffsetBitsPerRecordAvg, err = v.AsFloat64()
		case "hash_indexing_failures":
			info.HashIndexingFailures, err = v.AsInt64()
		case "total_indexing_time":
			info.TotalIndexingTime, err = v.AsFloat64()
		case "indexing":
			var i int64
			i, err = v.AsInt64()
			info.Indexing = i != 0
		case "percent_indexed":
			info.PercentIndexed, err = v.AsFloat64()
		case "number_of_uses":
			info.NumberOfUses, err = v.AsInt64()
		case "cleaning":
			info.Cleaning, err = v.AsInt64()
		case "gc_stats":
			info.GCStats, err = decodeGCStats(v)
		case "cursor_stats":
			info.CursorStats, err = decodeCursorStats(v)
		case "dialect_stats":
			info.DialectStats, err = decodeCounters(v)
		case "stopwords_list":
			info.Stopwords, err = DecodeStrings(v)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("decode info: %w", err)
	}
	return info, nil
}

func decodeDefinition(n reply.Node) (IndexDefinition, error) {
	var d IndexDefinition
	err := pairs(n, func(label string, v reply.Node) error {
		var err error
		switch label {
		case "key_type":
			d.KeyType, err = v.AsString()
		case "prefixes":
			d.Prefixes, err = DecodeStrings(v)
		case "filter":
			d.Filter, err = v.AsString()
		case "default_language":
			d.Language, err = v.AsString()
		case "language_field":
			d.LanguageField, err = v.AsString()
		case "default_score":
			d.DefaultScore, err = v.AsFloat64()
		case "score_field":
			d.ScoreField, err = v.AsString()
		case "payload_field":
			d.PayloadField, err = v.AsString()
		case "indexes_all":
			d.IndexesAll = v.Text() == "true" || v.Text() == "1"
		}
		return err
	})
	return d, err
}

func decodeAttributes(n reply.Node) ([]Attribute, error) {
	items, err := n.AsArray()
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, 0, len(items))
	for _, item := range items {
		a, err := decodeAttribute(item)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

// decodeAttribute reads a mixed sequence of label/value pairs and bare flags.
func decodeAttribute(n reply.Node) (Attribute, error) {
	items, err := n.AsArray()
	if err != nil {
		return Attribute{}, err
	}
	a := Attribute{Options: map[string]any{}}
	for i := 0; i < len(items); i++ {
		label, err := items[i].AsString()
		if err != nil {
			return Attribute{}, err
		}
		if attributeFlags[strings.ToUpper(label)] {
			a.Flags = append(a.Flags, label)
			continue
		}
		if i+1 >= len(items) {
			a.Flags = append(a.Flags, label)
			break
		}
		v := items[i+1]
		i++
		switch label {
		case "identifier":
			a.Identifier = v.Text()
		case "attribute":
			a.Name = v.Text()
		case "type":
			a.Type = v.Text()
		default:
			a.Options[label] = Normalize(v)
		}
	}
	return a, nil
}

// Normalize converts a reply subtree into plain Go values. Scalars become
// strings. An array whose first element is itself an array becomes []any of
// normalized elements. Any other array of even length with string labels
// becomes map[string]any; remaining arrays become []any.
func Normalize(n reply.Node) any {
	if !n.IsArray() {
		if n.IsNil() {
			return nil
		}
		return n.Text()
	}
	items, _ := n.AsArray()
	if len(items) == 0 {
		return []any{}
	}
	if items[0].IsArray() || len(items)%2 != 0 || !labelled(items) {
		out := make([]any, len(items))
		for i, c := range items {
			out[i] = Normalize(c)
		}
		return out
	}
	m := make(map[string]any, len(items)/2)
	for i := 0; i+1 < len(items); i += 2 {
		m[items[i].Text()] = Normalize(items[i+1])
	}
	return m
}

func labelled(items []reply.Node) bool {
	for i := 0; i < len(items); i += 2 {
		if items[i].Type() != reply.TypeString {
			return false
		}
	}
	return true
}

func decodeGCStats(n reply.Node) (GCStats, error) {
	var s GCStats
	err := pairs(n, func(label string, v reply.Node) error {
		var err error
		switch label {
		case "bytes_collected":
			s.BytesCollected, err = v.AsInt64()
		case "total_ms_run":
			s.TotalMSRun, err = v.AsFloat64()
		case "total_cycles":
			s.TotalCycles, err = v.AsInt64()
		case "average_cycle_time_ms":
			s.AverageCycleTimeMS, err = v.AsFloat64()
		case "last_run_time_ms":
			s.LastRunTimeMS, err = v.AsFloat64()
		case "gc_numeric_trees_missed":
			s.NumericTreesMissed, err = v.AsInt64()
		case "gc_blocks_denied":
			s.BlocksDenied, err = v.AsInt64()
		}
		return err
	})
	return s, err
}

func decodeCursorStats(n reply.Node) (CursorStats, error) {
	var s CursorStats
	err := pairs(n, func(label string, v reply.Node) error {
		var err error
		switch label {
		case "global_idle":
			s.GlobalIdle, err = v.AsInt64()
		case "global_total":
			s.GlobalTotal, err = v.AsInt64()
		case "index_capacity":
			s.IndexCapacity, err = v.AsInt64()
		case "index_total":
			s.IndexTotal, err = v.AsInt64()
		}
		return err
	})
	return s, err
}

func decodeCounters(n reply.Node) (map[string]int64, error) {
	m := make(map[string]int64)
	err := pairs(n, func(label string, v reply.Node) error {
		c, err := v.AsInt64()
		m[label] = c
		return err
	})
	return m, err
}
