package query

import (
	"errors"
	"math"
	"strconv"

	"github.com/kailas-cloud/ftkit/internal/args"
)

// Order is a sort direction.
type Order int

// Sort directions.
const (
	Asc Order = iota
	Desc
)

func (o Order) String() string {
	if o == Desc {
		return "DESC"
	}
	return "ASC"
}

// Unit is a GEOFILTER radius unit.
type Unit int

// Radius units.
const (
	Meters Unit = iota
	Kilometers
	Miles
	Feet
)

func (u Unit) String() string {
	switch u {
	case Meters:
		return "m"
	case Kilometers:
		return "km"
	case Miles:
		return "mi"
	case Feet:
		return "ft"
	default:
		return ""
	}
}

// NumericFilter restricts results to documents whose numeric field lies in
// [Min, Max]. Infinite bounds render as -inf/+inf; exclusive bounds get a "(" prefix.
type NumericFilter struct {
	Field        string
	Min          float64
	Max          float64
	ExclusiveMin bool
	ExclusiveMax bool
}

// AtLeast returns a filter for field >= min.
func AtLeast(field string, minVal float64) NumericFilter {
	return NumericFilter{Field: field, Min: minVal, Max: math.Inf(1)}
}

// AtMost returns a filter for field <= max.
func AtMost(field string, maxVal float64) NumericFilter {
	return NumericFilter{Field: field, Min: math.Inf(-1), Max: maxVal}
}

// Between returns a filter for min <= field <= max.
func Between(field string, minVal, maxVal float64) NumericFilter {
	return NumericFilter{Field: field, Min: minVal, Max: maxVal}
}

func (f NumericFilter) validate() error {
	if f.Field == "" {
		return errors.New("numeric filter field is required")
	}
	if math.IsNaN(f.Min) || math.IsNaN(f.Max) {
		return errors.New("numeric filter bounds must not be NaN")
	}
	return nil
}

func (f NumericFilter) put(b *args.Buffer) {
	b.Put("FILTER", f.Field, bound(f.Min, f.ExclusiveMin), bound(f.Max, f.ExclusiveMax))
}

func bound(v float64, exclusive bool) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := args.Float(v)
	if exclusive {
		return "(" + s
	}
	return s
}

// GeoFilter restricts results to documents within Radius of (Lon, Lat).
type GeoFilter struct {
	Field  string
	Lon    float64
	Lat    float64
	Radius float64
	Unit   Unit
}

func (g *GeoFilter) validate() error {
	if g.Field == "" {
		return errors.New("geo filter field is required")
	}
	if g.Unit.String() == "" {
		return errors.New("geo filter unit is invalid: " + strconv.Itoa(int(g.Unit)))
	}
	if g.Radius < 0 {
		return errors.New("geo filter radius must not be negative")
	}
	if g.Lat < -90 || g.Lat > 90 || g.Lon < -180 || g.Lon > 180 {
		return errors.New("geo filter coordinates out of range")
	}
	return nil
}

func (g *GeoFilter) put(b *args.Buffer) {
	b.Put("GEOFILTER", g.Field, args.Float(g.Lon), args.Float(g.Lat), args.Float(g.Radius), g.Unit.String())
}
