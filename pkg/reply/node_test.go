package reply

import (
	"errors"
	"math"
	"testing"
)

func TestNode_Scalars(t *testing.T) {
	if s, err := Str("abc").AsString(); err != nil || s != "abc" {
		t.Errorf("Str: %q, %v", s, err)
	}
	if s, err := Int(42).AsString(); err != nil || s != "42" {
		t.Errorf("Int as string: %q, %v", s, err)
	}
	if s, err := Double(0.25).AsString(); err != nil || s != "0.25" {
		t.Errorf("Double as string: %q, %v", s, err)
	}
	if v, err := Str("17").AsInt64(); err != nil || v != 17 {
		t.Errorf("string as int: %d, %v", v, err)
	}
	if v, err := Str("3.9").AsInt64(); err != nil || v != 3 {
		t.Errorf("float string as int: %d, %v", v, err)
	}
	if v, err := Str("1.5").AsFloat64(); err != nil || v != 1.5 {
		t.Errorf("string as float: %f, %v", v, err)
	}
	if v, err := Int(2).AsFloat64(); err != nil || v != 2 {
		t.Errorf("int as float: %f, %v", v, err)
	}
}

func TestNode_SpecialFloats(t *testing.T) {
	tests := map[string]func(float64) bool{
		"inf":  func(f float64) bool { return math.IsInf(f, 1) },
		"-inf": func(f float64) bool { return math.IsInf(f, -1) },
		"nan":  math.IsNaN,
		"-nan": math.IsNaN,
	}
	for in, check := range tests {
		f, err := Str(in).AsFloat64()
		if err != nil {
			t.Errorf("%q: unexpected error %v", in, err)
			continue
		}
		if !check(f) {
			t.Errorf("%q parsed to %v", in, f)
		}
	}
}

func TestNode_ShapeErrors(t *testing.T) {
	_, err := Array().AsString()
	if !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}

	_, err = Str("x").AsArray()
	var se *ShapeError
	if !errors.As(err, &se) || se.Want != TypeArray || se.Got != TypeString {
		t.Errorf("unexpected error %v", err)
	}

	_, err = Str("abc").AsInt64()
	if !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape for non-numeric string, got %v", err)
	}

	_, err = Nil().AsFloat64()
	if !errors.Is(err, ErrShape) {
		t.Errorf("expected ErrShape for nil, got %v", err)
	}
}

func TestNode_Array(t *testing.T) {
	n := Array(Str("a"), Int(1))
	if !n.IsArray() || n.Len() != 2 {
		t.Fatalf("unexpected array %v", n)
	}
	if n.At(0).Text() != "a" {
		t.Errorf("At(0) = %v", n.At(0))
	}
	if !n.At(5).IsNil() || !n.At(-1).IsNil() {
		t.Error("out of range At must return nil node")
	}

	items, err := Nil().AsArray()
	if err != nil || len(items) != 0 {
		t.Errorf("nil as array: %v, %v", items, err)
	}
	if got := Strs("x", "y").String(); got != `["x" "y"]` {
		t.Errorf("String() = %s", got)
	}
}

func TestNode_IsOK(t *testing.T) {
	if !Str("OK").IsOK() {
		t.Error("expected OK")
	}
	if Str("ok").IsOK() || Int(1).IsOK() {
		t.Error("unexpected OK")
	}
}

func TestIsServerError(t *testing.T) {
	err := errors.Join(errors.New("ctx"), &ServerError{Message: "Unknown index name"})
	se, ok := IsServerError(err)
	if !ok || se.Message != "Unknown index name" {
		t.Errorf("got %v, %v", se, ok)
	}
	if _, ok := IsServerError(errors.New("plain")); ok {
		t.Error("plain error is not a server error")
	}
}
