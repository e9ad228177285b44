package mapper

import (
	"strconv"

	"github.com/kailas-cloud/ftkit/pkg/reply"
	"github.com/kailas-cloud/ftkit/pkg/result"
)

// String converts a scalar to its text.
func String(n reply.Node) (string, error) { return n.AsString() }

// Int64 converts a numeric scalar.
func Int64(n reply.Node) (int64, error) { return n.AsInt64() }

// Float64 converts a numeric scalar, accepting inf and nan.
func Float64(n reply.Node) (float64, error) { return n.AsFloat64() }

// Bool converts "1", "true" and similar scalars.
func Bool(n reply.Node) (bool, error) {
	s, err := n.AsString()
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, &reply.ShapeError{Want: reply.TypeString, Got: n.Type(), Note: "not a boolean: " + strconv.Quote(s)}
	}
	return b, nil
}

// Strings converts an array of scalars.
func Strings(n reply.Node) ([]string, error) { return result.DecodeStrings(n) }
