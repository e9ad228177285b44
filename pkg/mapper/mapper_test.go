package mapper

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/kailas-cloud/ftkit/pkg/reply"
	"github.com/kailas-cloud/ftkit/pkg/result"
)

type testProduct struct {
	Title   string
	Price   float64
	Stock   int64
	InStock bool
	Tags    []string
}

func productMappings() []Mapping[testProduct] {
	return []Mapping[testProduct]{
		Field("title", func(p *testProduct, v string) { p.Title = v }, String),
		Field("price", func(p *testProduct, v float64) { p.Price = v }, Float64),
		Field("stock", func(p *testProduct, v int64) { p.Stock = v }, Int64),
		Field("in_stock", func(p *testProduct, v bool) { p.InStock = v }, Bool),
		Field("tags", func(p *testProduct, v []string) { p.Tags = v }, Strings),
	}
}

func TestMap(t *testing.T) {
	r := NewRegistry()
	if !Register(r, productMappings()...) {
		t.Fatal("first registration must take effect")
	}

	f := result.NewFields("title", "Lamp", "price", "9.5", "stock", "3", "in_stock", "true", "extra", "x")
	got, err := Map[testProduct](r, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := testProduct{Title: "Lamp", Price: 9.5, Stock: 3, InStock: true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRegister_FirstWriterWins(t *testing.T) {
	r := NewRegistry()
	Register(r, Field("title", func(p *testProduct, v string) { p.Title = v }, String))
	if Register(r, Field("title", func(p *testProduct, v string) { p.Title = "overwritten" }, String)) {
		t.Error("second registration must be a no-op")
	}

	got, err := Map[testProduct](r, result.NewFields("title", "Lamp"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Lamp" {
		t.Errorf("title = %q, first mapping must be kept", got.Title)
	}
}

func TestRegister_Concurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	wins := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- Register(r, productMappings()...)
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for w := range wins {
		if w {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one winning registration, got %d", count)
	}
}

func TestMap_NotConfigured(t *testing.T) {
	var r Registry
	_, err := Map[testProduct](&r, result.NewFields("title", "x"))
	if !errors.Is(err, ErrMappingNotConfigured) {
		t.Errorf("expected ErrMappingNotConfigured, got %v", err)
	}
	if Registered[testProduct](&r) {
		t.Error("type must not be registered")
	}
}

func TestMap_ConversionError(t *testing.T) {
	r := NewRegistry()
	Register(r, productMappings()...)
	_, err := Map[testProduct](r, result.NewFields("price", "cheap"))
	if !errors.Is(err, reply.ErrShape) {
		t.Errorf("expected shape error, got %v", err)
	}
}

func TestMapSearch(t *testing.T) {
	r := NewRegistry()
	Register(r, productMappings()...)

	n := reply.Array(
		reply.Int(2),
		reply.Str("p:1"), reply.Array(reply.Str("title"), reply.Str("A"), reply.Str("tags"), reply.Strs("x", "y")),
		reply.Str("p:2"), reply.Strs("title", "B"),
	)
	res, err := result.DecodeSearch(n, result.Layout{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := MapSearch[testProduct](r, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "A" || got[1].Title != "B" {
		t.Errorf("unexpected products %+v", got)
	}
	if !reflect.DeepEqual(got[0].Tags, []string{"x", "y"}) {
		t.Errorf("tags = %v", got[0].Tags)
	}
}

func TestMapAggregate(t *testing.T) {
	type bucket struct {
		City  string
		Count int64
	}
	r := NewRegistry()
	Register(r,
		Field("city", func(b *bucket, v string) { b.City = v }, String),
		Field("n", func(b *bucket, v int64) { b.Count = v }, Int64),
	)

	n := reply.Array(reply.Int(1), reply.Strs("city", "Oslo", "n", "4"))
	res, err := result.DecodeAggregate(n, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := MapAggregate[bucket](r, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != (bucket{City: "Oslo", Count: 4}) {
		t.Errorf("unexpected buckets %+v", got)
	}

	if _, err := MapAggregate[testProduct](NewRegistry(), res); !errors.Is(err, ErrMappingNotConfigured) {
		t.Errorf("expected ErrMappingNotConfigured, got %v", err)
	}
}

func TestBool(t *testing.T) {
	if v, err := Bool(reply.Str("1")); err != nil || !v {
		t.Errorf("got %v, %v", v, err)
	}
	if _, err := Bool(reply.Str("maybe")); !errors.Is(err, reply.ErrShape) {
		t.Errorf("expected shape error, got %v", err)
	}
}
