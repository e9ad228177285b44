package result

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/ftkit/pkg/reply"
)

func TestFields_DefaultOnMiss(t *testing.T) {
	f := NewFields("k1", "v1", "k2", "v2")

	if f.String("k1") != "v1" {
		t.Errorf("k1 = %q", f.String("k1"))
	}
	if f.String("unknown_key") != "" {
		t.Errorf("unknown key = %q, want empty", f.String("unknown_key"))
	}
	if !f.Get("unknown_key").IsNil() {
		t.Error("expected nil node on miss")
	}
	if f.At(0).Text() != "v1" {
		t.Errorf("At(0) = %v", f.At(0))
	}
	if !f.At(100).IsNil() || !f.At(-1).IsNil() {
		t.Error("expected nil node out of range")
	}
	if f.Int64("k1") != 0 || f.Float64("nope") != 0 {
		t.Error("expected zero numerics on miss or non-numeric")
	}
}

func TestFields_OrderAndDuplicates(t *testing.T) {
	f := NewFields("b", "1", "a", "2", "b", "3", "dangling")
	if !reflect.DeepEqual(f.Keys(), []string{"b", "a"}) {
		t.Errorf("keys = %v", f.Keys())
	}
	if f.String("b") != "1" {
		t.Errorf("first occurrence must win, got %q", f.String("b"))
	}
	if f.Len() != 2 || !f.Has("a") || f.Has("dangling") {
		t.Errorf("unexpected fields %v", f.Map())
	}
	if f.Int64("a") != 2 {
		t.Errorf("a = %d", f.Int64("a"))
	}
}

func TestDecodeFields_BadLabel(t *testing.T) {
	_, err := decodeFields(reply.Array(reply.Array(), reply.Str("v")))
	if !errors.Is(err, reply.ErrShape) {
		t.Errorf("expected shape error, got %v", err)
	}
}

func TestFields_ZeroValue(t *testing.T) {
	var f Fields
	if f.Len() != 0 || f.String("x") != "" || !f.At(0).IsNil() {
		t.Error("zero Fields must behave as empty")
	}
}
