package query

import (
	"encoding/binary"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/ftkit/internal/args"
	"github.com/kailas-cloud/ftkit/pkg/result"
)

// MinVectorDialect is the lowest dialect that supports vector syntax.
const MinVectorDialect = 2

// Float32Blob encodes v as little-endian float32 bytes, the layout FLOAT32
// vector fields expect.
func Float32Blob(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Float64Blob encodes v as little-endian float64 bytes.
func Float64Blob(v []float64) []byte {
	buf := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

// tail holds the clauses shared by KNN and range queries.
type tail struct {
	sortBy   string
	order    Order
	sortSet  bool
	offset   int
	num      int
	limitSet bool
	ret      []string
	dialect  int
}

func (t *tail) validate() error {
	if t.limitSet && (t.offset < 0 || t.num < 0) {
		return errors.New("limit offset and num must not be negative")
	}
	if t.dialect != 0 && t.dialect < MinVectorDialect {
		return errors.New("vector queries require dialect " + strconv.Itoa(MinVectorDialect) + " or higher")
	}
	return nil
}

func (t *tail) size() int {
	return args.Flag(t.sortSet, 3) +
		args.Flag(t.limitSet, 3) +
		args.Flag(len(t.ret) > 0, 2+len(t.ret)) +
		2
}

func (t *tail) put(w *args.Buffer, sortField string) {
	if t.sortSet {
		w.Put("SORTBY", sortField, t.order.String())
	}
	if t.limitSet {
		putLimit(w, t.offset, t.num)
	}
	if len(t.ret) > 0 {
		w.Put("RETURN")
		w.PutCounted(t.ret)
	}
	d := t.dialect
	if d == 0 {
		d = MinVectorDialect
	}
	w.Put("DIALECT")
	w.PutInt(d)
}

// KNNBuilder builds a K-nearest-neighbour query.
type KNNBuilder struct {
	field      string
	k          int
	vector     []byte
	prefilter  string
	efRuntime  *int
	epsilon    *float64
	scoreField string
	tail
}

// KNN starts a query for the k vectors in field nearest to vector.
func KNN(field string, k int, vector []byte) *KNNBuilder {
	return &KNNBuilder{field: field, k: k, vector: vector}
}

// Prefilter restricts candidates with a filter expression. Empty means all documents.
func (b *KNNBuilder) Prefilter(expr string) *KNNBuilder { b.prefilter = expr; return b }

// EFRuntime overrides the HNSW EF_RUNTIME for this query.
func (b *KNNBuilder) EFRuntime(n int) *KNNBuilder { b.efRuntime = &n; return b }

// Epsilon overrides the range boundary factor for this query.
func (b *KNNBuilder) Epsilon(e float64) *KNNBuilder { b.epsilon = &e; return b }

// ScoreField names the distance field yielded for each result.
func (b *KNNBuilder) ScoreField(alias string) *KNNBuilder { b.scoreField = alias; return b }

// SortBy orders results by distance.
func (b *KNNBuilder) SortBy(order Order) *KNNBuilder {
	b.order, b.sortSet = order, true
	return b
}

// Limit pages the results.
func (b *KNNBuilder) Limit(offset, num int) *KNNBuilder {
	b.offset, b.num, b.limitSet = offset, num, true
	return b
}

// Return limits the returned fields.
func (b *KNNBuilder) Return(fields ...string) *KNNBuilder {
	b.ret = append(b.ret, fields...)
	return b
}

// Dialect sets the query dialect; the default is 2.
func (b *KNNBuilder) Dialect(n int) *KNNBuilder { b.dialect = n; return b }

// DistanceField returns the name the distance is reported under.
func (b *KNNBuilder) DistanceField() string {
	if b.scoreField != "" {
		return b.scoreField
	}
	return "__" + b.field + "_score"
}

// Build validates and compiles the query.
func (b *KNNBuilder) Build() (*Definition, error) {
	if b.field == "" {
		return nil, errors.New("vector field name is required")
	}
	if b.k <= 0 {
		return nil, errors.New("k must be positive")
	}
	if len(b.vector) == 0 {
		return nil, errors.New("vector is required")
	}
	if b.efRuntime != nil && *b.efRuntime <= 0 {
		return nil, errors.New("EF_RUNTIME must be positive")
	}
	if err := b.tail.validate(); err != nil {
		return nil, err
	}

	nParams := 1 + args.Flag(b.efRuntime != nil, 1) + args.Flag(b.epsilon != nil, 1)
	w := args.New(1 + 2 + 2*nParams + b.tail.size())
	w.Put(b.queryString())
	w.Put("PARAMS")
	w.PutInt(2 * nParams)
	w.Put("BLOB", string(b.vector))
	if b.efRuntime != nil {
		w.Put("ef_runtime", strconv.Itoa(*b.efRuntime))
	}
	if b.epsilon != nil {
		w.Put("epsilon", args.Float(*b.epsilon))
	}
	b.tail.put(w, b.DistanceField())
	return &Definition{args: w.Done(), layout: result.Layout{}}, nil
}

// MustBuild calls Build and panics on error.
func (b *KNNBuilder) MustBuild() *Definition {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func (b *KNNBuilder) queryString() string {
	var sb strings.Builder
	if b.prefilter == "" {
		sb.WriteString("*")
	} else {
		sb.WriteString("(")
		sb.WriteString(b.prefilter)
		sb.WriteString(")")
	}
	sb.WriteString("=>[KNN ")
	sb.WriteString(strconv.Itoa(b.k))
	sb.WriteString(" @")
	sb.WriteString(b.field)
	sb.WriteString(" $BLOB")
	if b.efRuntime != nil {
		sb.WriteString(" EF_RUNTIME $ef_runtime")
	}
	if b.epsilon != nil {
		sb.WriteString(" EPSILON $epsilon")
	}
	sb.WriteString("]")
	if b.scoreField != "" {
		sb.WriteString("=>{$YIELD_DISTANCE_AS: ")
		sb.WriteString(b.scoreField)
		sb.WriteString("}")
	}
	return sb.String()
}

// RangeBuilder builds a vector range query.
type RangeBuilder struct {
	field         string
	radius        float64
	vector        []byte
	epsilon       *float64
	distanceAlias string
	tail
}

// Range starts a query for vectors in field within radius of vector.
func Range(field string, radius float64, vector []byte) *RangeBuilder {
	return &RangeBuilder{field: field, radius: radius, vector: vector}
}

// Epsilon sets the range boundary factor.
func (b *RangeBuilder) Epsilon(e float64) *RangeBuilder { b.epsilon = &e; return b }

// DistanceAlias names the distance field yielded for each result.
func (b *RangeBuilder) DistanceAlias(alias string) *RangeBuilder { b.distanceAlias = alias; return b }

// SortBy orders results by field.
func (b *RangeBuilder) SortBy(field string, order Order) *RangeBuilder {
	b.sortBy, b.order, b.sortSet = field, order, true
	return b
}

// Limit pages the results.
func (b *RangeBuilder) Limit(offset, num int) *RangeBuilder {
	b.offset, b.num, b.limitSet = offset, num, true
	return b
}

// Return limits the returned fields.
func (b *RangeBuilder) Return(fields ...string) *RangeBuilder {
	b.ret = append(b.ret, fields...)
	return b
}

// Dialect sets the query dialect; the default is 2.
func (b *RangeBuilder) Dialect(n int) *RangeBuilder { b.dialect = n; return b }

// Build validates and compiles the query.
func (b *RangeBuilder) Build() (*Definition, error) {
	if b.field == "" {
		return nil, errors.New("vector field name is required")
	}
	if b.radius < 0 || math.IsNaN(b.radius) {
		return nil, errors.New("radius must not be negative")
	}
	if len(b.vector) == 0 {
		return nil, errors.New("vector is required")
	}
	if b.sortSet && b.sortBy == "" {
		return nil, errors.New("sort field is required")
	}
	if err := b.tail.validate(); err != nil {
		return nil, err
	}

	w := args.New(1 + 6 + b.tail.size())
	w.Put(b.queryString())
	w.Put("PARAMS", "4", "r", args.Float(b.radius), "BLOB", string(b.vector))
	b.tail.put(w, b.sortBy)
	return &Definition{args: w.Done(), layout: result.Layout{}}, nil
}

// MustBuild calls Build and panics on error.
func (b *RangeBuilder) MustBuild() *Definition {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func (b *RangeBuilder) queryString() string {
	q := "@" + b.field + ":[VECTOR_RANGE $r $BLOB]"
	attrs := make([]string, 0, 2)
	if b.epsilon != nil {
		attrs = append(attrs, "$EPSILON:"+args.Float(*b.epsilon))
	}
	if b.distanceAlias != "" {
		attrs = append(attrs, "$YIELD_DISTANCE_AS: "+b.distanceAlias)
	}
	if len(attrs) == 0 {
		return q
	}
	return q + "=>{" + strings.Join(attrs, "; ") + "}"
}
