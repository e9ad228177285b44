package aggregate

import (
	"strconv"

	"github.com/kailas-cloud/ftkit/internal/args"
)

// Reducer is a GROUPBY reduction function.
type Reducer int

// Reducers.
const (
	Count Reducer = iota
	CountDistinct
	CountDistinctish
	Sum
	Min
	Max
	Avg
	StdDev
	Quantile
	ToList
	FirstValue
	RandomSample
)

var reducerNames = [...]string{
	Count:            "COUNT",
	CountDistinct:    "COUNT_DISTINCT",
	CountDistinctish: "COUNT_DISTINCTISH",
	Sum:              "SUM",
	Min:              "MIN",
	Max:              "MAX",
	Avg:              "AVG",
	StdDev:           "STDDEV",
	Quantile:         "QUANTILE",
	ToList:           "TOLIST",
	FirstValue:       "FIRST_VALUE",
	RandomSample:     "RANDOM_SAMPLE",
}

func (r Reducer) String() string {
	if r < 0 || int(r) >= len(reducerNames) {
		return ""
	}
	return reducerNames[r]
}

// Reduction is one REDUCE clause: fn argc args [AS alias].
type Reduction struct {
	Fn    Reducer
	Args  []string
	Alias string
}

// As returns a copy of r with an output alias.
func (r Reduction) As(alias string) Reduction {
	r.Alias = alias
	return r
}

func (r Reduction) size() int {
	return 3 + len(r.Args) + args.Flag(r.Alias != "", 2)
}

func (r Reduction) put(w *args.Buffer) {
	w.Put("REDUCE", r.Fn.String())
	w.PutCounted(r.Args)
	if r.Alias != "" {
		w.Put("AS", r.Alias)
	}
}

// CountOf counts records in each group.
func CountOf() Reduction { return Reduction{Fn: Count} }

// CountDistinctOf counts distinct values of property.
func CountDistinctOf(property string) Reduction {
	return Reduction{Fn: CountDistinct, Args: []string{property}}
}

// CountDistinctishOf approximates the distinct count of property.
func CountDistinctishOf(property string) Reduction {
	return Reduction{Fn: CountDistinctish, Args: []string{property}}
}

// SumOf sums property.
func SumOf(property string) Reduction { return Reduction{Fn: Sum, Args: []string{property}} }

// MinOf returns the minimum of property.
func MinOf(property string) Reduction { return Reduction{Fn: Min, Args: []string{property}} }

// MaxOf returns the maximum of property.
func MaxOf(property string) Reduction { return Reduction{Fn: Max, Args: []string{property}} }

// AvgOf averages property.
func AvgOf(property string) Reduction { return Reduction{Fn: Avg, Args: []string{property}} }

// StdDevOf returns the standard deviation of property.
func StdDevOf(property string) Reduction { return Reduction{Fn: StdDev, Args: []string{property}} }

// QuantileOf returns the q quantile (0..1) of property.
func QuantileOf(property string, q float64) Reduction {
	return Reduction{Fn: Quantile, Args: []string{property, args.Float(q)}}
}

// ToListOf collects the distinct values of property.
func ToListOf(property string) Reduction { return Reduction{Fn: ToList, Args: []string{property}} }

// FirstValueOf returns the first value of property, optionally ordered by another property.
func FirstValueOf(property, by string, order Order) Reduction {
	a := []string{property}
	if by != "" {
		a = append(a, "BY", by, order.String())
	}
	return Reduction{Fn: FirstValue, Args: a}
}

// RandomSampleOf returns up to size random values of property.
func RandomSampleOf(property string, size int) Reduction {
	return Reduction{Fn: RandomSample, Args: []string{property, strconv.Itoa(size)}}
}
