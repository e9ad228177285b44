package schema

import (
	"strconv"

	"github.com/kailas-cloud/ftkit/internal/args"
)

// DistanceMetric used by vector similarity fields.
type DistanceMetric string

const (
	// DistanceL2 is Euclidean distance.
	DistanceL2 DistanceMetric = "L2"
	// DistanceIP is inner product distance.
	DistanceIP DistanceMetric = "IP"
	// DistanceCosine is cosine distance.
	DistanceCosine DistanceMetric = "COSINE"
)

// VectorType is the element type of stored vectors.
type VectorType string

const (
	// Float32 vectors.
	Float32 VectorType = "FLOAT32"
	// Float64 vectors.
	Float64 VectorType = "FLOAT64"
)

// VectorAlgorithm selects the indexing algorithm for vector fields.
type VectorAlgorithm string

const (
	// HNSW is the hierarchical navigable small world graph index.
	HNSW VectorAlgorithm = "HNSW"
	// Flat is the brute-force index.
	Flat VectorAlgorithm = "FLAT"
)

// Vector is implemented by both vector field kinds.
type Vector interface {
	Field
	Algorithm() VectorAlgorithm
	Dimension() int
}

// requiredVectorAttrs is TYPE t DIM d DISTANCE_METRIC m.
const requiredVectorAttrs = 6

// HNSWField is a vector field indexed with HNSW.
//
// Optional parameters are emitted in declaration order and emission stops at
// the first nil one: setting EFRuntime while leaving M nil drops EFRuntime.
type HNSWField struct {
	Path   string
	Alias  string
	Type   VectorType // FLOAT32 when empty
	Dim    int
	Metric DistanceMetric // COSINE when empty

	InitialCap     *int
	M              *int
	EFConstruction *int
	EFRuntime      *int
	Epsilon        *float64

	memo memo
}

// Kind implements Field.
func (f *HNSWField) Kind() Kind { return KindVector }

// Identifier implements Field.
func (f *HNSWField) Identifier() string { return identifier(f.Path, f.Alias) }

// Algorithm implements Vector.
func (f *HNSWField) Algorithm() VectorAlgorithm { return HNSW }

// Dimension implements Vector.
func (f *HNSWField) Dimension() int { return f.Dim }

// optional returns the present optional parameters in protocol order.
func (f *HNSWField) optional() [][2]string {
	out := make([][2]string, 0, 5)
	ints := []struct {
		name string
		v    *int
	}{
		{"INITIAL_CAP", f.InitialCap},
		{"M", f.M},
		{"EF_CONSTRUCTION", f.EFConstruction},
		{"EF_RUNTIME", f.EFRuntime},
	}
	for _, p := range ints {
		if p.v == nil {
			return out
		}
		out = append(out, [2]string{p.name, strconv.Itoa(*p.v)})
	}
	if f.Epsilon != nil {
		out = append(out, [2]string{"EPSILON", args.Float(*f.Epsilon)})
	}
	return out
}

// Args returns "<name> VECTOR HNSW <count> TYPE t DIM d DISTANCE_METRIC m [...]".
func (f *HNSWField) Args() []string {
	return f.memo.get(func() []string {
		return vectorArgs(f.Path, f.Alias, HNSW, f.Type, f.Dim, f.Metric, f.optional())
	})
}

// FlatField is a vector field indexed by brute force.
type FlatField struct {
	Path   string
	Alias  string
	Type   VectorType
	Dim    int
	Metric DistanceMetric

	InitialCap *int
	BlockSize  *int

	memo memo
}

// Kind implements Field.
func (f *FlatField) Kind() Kind { return KindVector }

// Identifier implements Field.
func (f *FlatField) Identifier() string { return identifier(f.Path, f.Alias) }

// Algorithm implements Vector.
func (f *FlatField) Algorithm() VectorAlgorithm { return Flat }

// Dimension implements Vector.
func (f *FlatField) Dimension() int { return f.Dim }

func (f *FlatField) optional() [][2]string {
	out := make([][2]string, 0, 2)
	if f.InitialCap == nil {
		return out
	}
	out = append(out, [2]string{"INITIAL_CAP", strconv.Itoa(*f.InitialCap)})
	if f.BlockSize == nil {
		return out
	}
	return append(out, [2]string{"BLOCK_SIZE", strconv.Itoa(*f.BlockSize)})
}

// Args returns "<name> VECTOR FLAT <count> TYPE t DIM d DISTANCE_METRIC m [...]".
func (f *FlatField) Args() []string {
	return f.memo.get(func() []string {
		return vectorArgs(f.Path, f.Alias, Flat, f.Type, f.Dim, f.Metric, f.optional())
	})
}

func vectorArgs(
	path, alias string, algo VectorAlgorithm, typ VectorType, dim int,
	metric DistanceMetric, optional [][2]string,
) []string {
	if typ == "" {
		typ = Float32
	}
	if metric == "" {
		metric = DistanceCosine
	}

	count := requiredVectorAttrs + 2*len(optional)
	b := args.New(nameLen(alias) + 3 + count)
	putName(b, path, alias)
	b.Put("VECTOR", string(algo))
	b.PutInt(count)
	b.Put(
		"TYPE", string(typ),
		"DIM", strconv.Itoa(dim),
		"DISTANCE_METRIC", string(metric),
	)
	for _, p := range optional {
		b.Put(p[0], p[1])
	}
	return b.Done()
}

// Int returns a pointer to v, for optional vector parameters.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for optional vector parameters.
func Float(v float64) *float64 { return &v }
