// Package reply models the untyped reply tree returned by the search engine.
//
// A Node is either a scalar (string, integer, double) or an ordered array of
// nodes. Nothing in the tree carries schema information; decoders interpret
// nodes by position and by the labels that precede them.
package reply

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type is the concrete shape of a Node.
type Type int

// Node shapes.
const (
	TypeNil Type = iota
	TypeString
	TypeInt
	TypeDouble
	TypeArray
)

func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeDouble:
		return "double"
	case TypeArray:
		return "array"
	default:
		return "unknown"
	}
}

// ErrShape is wrapped by every decode failure caused by an unexpected node shape.
var ErrShape = errors.New("reply: unexpected shape")

// ShapeError describes a node that did not have the shape a decoder required.
type ShapeError struct {
	Want Type
	Got  Type
	Note string
}

func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("reply: want %s, got %s", e.Want, e.Got)
	if e.Note != "" {
		msg += " (" + e.Note + ")"
	}
	return msg
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// ServerError is an error reply produced by the server itself, as opposed to
// a transport failure.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return e.Message }

// IsServerError reports whether err carries a ServerError.
func IsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Node is one element of a reply tree. The zero value is a nil node.
type Node struct {
	typ Type
	str string
	i   int64
	f   float64
	arr []Node
}

// Nil returns a nil node.
func Nil() Node { return Node{} }

// Str returns a string node. Bulk and simple strings are not distinguished.
func Str(s string) Node { return Node{typ: TypeString, str: s} }

// Int returns an integer node.
func Int(v int64) Node { return Node{typ: TypeInt, i: v} }

// Double returns a double node.
func Double(v float64) Node { return Node{typ: TypeDouble, f: v} }

// Array returns an array node.
func Array(items ...Node) Node {
	if items == nil {
		items = []Node{}
	}
	return Node{typ: TypeArray, arr: items}
}

// Strs returns an array of string nodes.
func Strs(items ...string) Node {
	out := make([]Node, len(items))
	for i, s := range items {
		out[i] = Str(s)
	}
	return Array(out...)
}

// Type returns the node shape.
func (n Node) Type() Type { return n.typ }

// IsNil reports whether n is a nil node.
func (n Node) IsNil() bool { return n.typ == TypeNil }

// IsArray reports whether n is an array node.
func (n Node) IsArray() bool { return n.typ == TypeArray }

// Len returns the number of elements of an array node, 0 otherwise.
func (n Node) Len() int { return len(n.arr) }

// At returns element i of an array node, or a nil node when out of range.
func (n Node) At(i int) Node {
	if i < 0 || i >= len(n.arr) {
		return Node{}
	}
	return n.arr[i]
}

// AsArray returns the elements of an array node. A nil node yields an empty slice.
func (n Node) AsArray() ([]Node, error) {
	switch n.typ {
	case TypeArray:
		return n.arr, nil
	case TypeNil:
		return nil, nil
	default:
		return nil, &ShapeError{Want: TypeArray, Got: n.typ}
	}
}

// AsString returns the scalar as a string. Numbers are formatted.
func (n Node) AsString() (string, error) {
	switch n.typ {
	case TypeString:
		return n.str, nil
	case TypeInt:
		return strconv.FormatInt(n.i, 10), nil
	case TypeDouble:
		return strconv.FormatFloat(n.f, 'f', -1, 64), nil
	default:
		return "", &ShapeError{Want: TypeString, Got: n.typ}
	}
}

// AsInt64 returns the scalar as an integer; numeric strings are parsed.
func (n Node) AsInt64() (int64, error) {
	switch n.typ {
	case TypeInt:
		return n.i, nil
	case TypeDouble:
		return int64(n.f), nil
	case TypeString:
		v, err := strconv.ParseInt(n.str, 10, 64)
		if err == nil {
			return v, nil
		}
		f, ferr := parseFloat(n.str)
		if ferr != nil {
			return 0, &ShapeError{Want: TypeInt, Got: n.typ, Note: strconv.Quote(n.str)}
		}
		return int64(f), nil
	default:
		return 0, &ShapeError{Want: TypeInt, Got: n.typ}
	}
}

// AsFloat64 returns the scalar as a double; numeric strings including
// "inf", "-inf" and "nan" are parsed.
func (n Node) AsFloat64() (float64, error) {
	switch n.typ {
	case TypeDouble:
		return n.f, nil
	case TypeInt:
		return float64(n.i), nil
	case TypeString:
		f, err := parseFloat(n.str)
		if err != nil {
			return 0, &ShapeError{Want: TypeDouble, Got: n.typ, Note: strconv.Quote(n.str)}
		}
		return f, nil
	default:
		return 0, &ShapeError{Want: TypeDouble, Got: n.typ}
	}
}

// Text returns the scalar rendering of n, or "" for nil and array nodes.
func (n Node) Text() string {
	s, err := n.AsString()
	if err != nil {
		return ""
	}
	return s
}

// String implements fmt.Stringer for debugging.
func (n Node) String() string {
	switch n.typ {
	case TypeNil:
		return "(nil)"
	case TypeArray:
		parts := make([]string, len(n.arr))
		for i, c := range n.arr {
			parts[i] = c.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case TypeString:
		return strconv.Quote(n.str)
	default:
		return n.Text()
	}
}

// IsOK reports whether n is the "OK" status reply.
func (n Node) IsOK() bool {
	return n.typ == TypeString && n.str == "OK"
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "-nan", "+nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
