package query

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/ftkit/pkg/schema"
)

func TestBuilder_Minimal(t *testing.T) {
	def := New("hello").MustBuild()
	if !reflect.DeepEqual(def.Args(), []string{"hello"}) {
		t.Errorf("got %q", def.Args())
	}
	if def.QueryString() != "hello" {
		t.Errorf("query string = %q", def.QueryString())
	}
}

func TestBuilder_AllClauses(t *testing.T) {
	def := New("@title:foo").
		NoContent().
		Verbatim().
		NoStopwords().
		WithScores().
		WithPayloads().
		WithSortKeys().
		Filter(Between("price", 10, 20)).
		Filter(NumericFilter{Field: "age", Min: 18, Max: math.Inf(1), ExclusiveMin: true}).
		GeoFilter(GeoFilter{Field: "loc", Lon: 13.4, Lat: 52.5, Radius: 5, Unit: Kilometers}).
		InKeys("doc:1", "doc:2").
		InFields("title").
		Return("title", "price").
		Summarize(&Summarize{Fields: []string{"body"}, Frags: 3, Len: 20, Separator: "..."}).
		Highlight(&Highlight{Fields: []string{"title"}, OpenTag: "<b>", CloseTag: "</b>"}).
		Slop(1).
		Timeout(500).
		InOrder().
		Language(schema.French).
		Expander("SYNONYM").
		Scorer("BM25").
		ExplainScore().
		Payload("pl").
		SortBy("price", Desc).
		Limit(5, 10).
		Params("x", "1").
		Dialect(3).
		MustBuild()

	want := []string{
		"@title:foo",
		"NOCONTENT", "VERBATIM", "NOSTOPWORDS", "WITHSCORES", "WITHPAYLOADS", "WITHSORTKEYS",
		"FILTER", "price", "10", "20",
		"FILTER", "age", "(18", "+inf",
		"GEOFILTER", "loc", "13.4", "52.5", "5", "km",
		"INKEYS", "2", "doc:1", "doc:2",
		"INFIELDS", "1", "title",
		"RETURN", "2", "title", "price",
		"SUMMARIZE", "FIELDS", "1", "body", "FRAGS", "3", "LEN", "20", "SEPARATOR", "...",
		"HIGHLIGHT", "FIELDS", "1", "title", "TAGS", "<b>", "</b>",
		"SLOP", "1",
		"TIMEOUT", "500",
		"INORDER",
		"LANGUAGE", "french",
		"EXPANDER", "SYNONYM",
		"SCORER", "BM25",
		"EXPLAINSCORE",
		"PAYLOAD", "pl",
		"SORTBY", "price", "DESC",
		"LIMIT", "5", "10",
		"PARAMS", "2", "x", "1",
		"DIALECT", "3",
	}
	if !reflect.DeepEqual(def.Args(), want) {
		t.Errorf("got  %q\nwant %q", def.Args(), want)
	}

	layout := def.Layout()
	if !layout.NoContent || !layout.WithScores || !layout.WithPayloads || !layout.WithSortKeys {
		t.Errorf("unexpected layout %+v", layout)
	}
}

func TestBuilder_SlopZero(t *testing.T) {
	def := New("a b").Slop(0).MustBuild()
	want := []string{"a b", "SLOP", "0"}
	if !reflect.DeepEqual(def.Args(), want) {
		t.Errorf("got %q, want %q", def.Args(), want)
	}
}

func TestBuilder_GeoFilterReplaced(t *testing.T) {
	def := New("*").
		GeoFilter(GeoFilter{Field: "a", Radius: 1}).
		GeoFilter(GeoFilter{Field: "b", Lon: 1, Lat: 2, Radius: 3, Unit: Miles}).
		MustBuild()
	want := []string{"*", "GEOFILTER", "b", "1", "2", "3", "mi"}
	if !reflect.DeepEqual(def.Args(), want) {
		t.Errorf("got %q, want %q", def.Args(), want)
	}
}

func TestBuilder_BuildIdempotent(t *testing.T) {
	s := &Summarize{Fields: []string{"body"}}
	b := New("x").Summarize(s).Filter(AtMost("n", 3)).Limit(0, 1)
	first := b.MustBuild()
	second := b.MustBuild()
	if !reflect.DeepEqual(first.Args(), second.Args()) {
		t.Errorf("builds differ:\n%q\n%q", first.Args(), second.Args())
	}
}

func TestBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		b       *Builder
		wantErr string
	}{
		{"empty query", New(""), "query string is required"},
		{"filter without field", New("*").Filter(NumericFilter{}), "field is required"},
		{"filter NaN", New("*").Filter(Between("a", math.NaN(), 1)), "NaN"},
		{"bad unit", New("*").GeoFilter(GeoFilter{Field: "g", Unit: Unit(9)}), "unit is invalid"},
		{"bad latitude", New("*").GeoFilter(GeoFilter{Field: "g", Lat: 91}), "out of range"},
		{"negative slop", New("*").Slop(-1), "slop"},
		{"explain without scores", New("*").ExplainScore(), "WITHSCORES"},
		{"negative limit", New("*").Limit(-1, 10), "limit"},
		{"duplicate param", New("*").Params("a", "1").Params("a", "2"), "duplicate param"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSummarize_Cached(t *testing.T) {
	s := &Summarize{}
	first := s.Args()
	if !reflect.DeepEqual(first, []string{"SUMMARIZE"}) {
		t.Errorf("got %q", first)
	}
	s.Frags = 5
	if !reflect.DeepEqual(s.Args(), first) {
		t.Error("expected cached args")
	}
}

func TestHighlight_PartialTags(t *testing.T) {
	h := &Highlight{OpenTag: "<i>"}
	if !reflect.DeepEqual(h.Args(), []string{"HIGHLIGHT"}) {
		t.Errorf("got %q", h.Args())
	}
}

func TestNumericBounds(t *testing.T) {
	tests := []struct {
		f    NumericFilter
		want string
	}{
		{AtLeast("p", 5), "@p:[5 +inf]"},
		{AtMost("p", 5), "@p:[-inf 5]"},
		{NumericFilter{Field: "p", Min: 1, Max: 2, ExclusiveMin: true, ExclusiveMax: true}, "@p:[(1 (2]"},
		{Between("p", -1.5, 0), "@p:[-1.5 0]"},
	}
	for _, tt := range tests {
		if got := NumericMatch(tt.f); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestTagMatch(t *testing.T) {
	got := TagMatch("city", "New York", "a-b")
	want := `@city:{New\ York | a\-b}`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTagMatch_Backslash(t *testing.T) {
	tests := []struct {
		values []string
		want   string
	}{
		{[]string{`C:\`, "x"}, `@path:{C\:\\ | x}`},
		{[]string{`a\`}, `@path:{a\\}`},
		{[]string{`a\b`}, `@path:{a\\b}`},
	}
	for _, tt := range tests {
		if got := TagMatch("path", tt.values...); got != tt.want {
			t.Errorf("TagMatch(%q) = %q, want %q", tt.values, got, tt.want)
		}
	}
}

func TestGeoMatch(t *testing.T) {
	got := GeoMatch(GeoFilter{Field: "loc", Lon: -73.9, Lat: 40.7, Radius: 10, Unit: Feet})
	if got != "@loc:[-73.9 40.7 10 ft]" {
		t.Errorf("got %q", got)
	}
}

func TestEscapeText(t *testing.T) {
	input := `hello "world" @user {tag}`
	expected := `hello \"world\" \@user \{tag\}`
	if escaped := EscapeText(input); escaped != expected {
		t.Errorf("expected %q, got %q", expected, escaped)
	}
}

func TestOrderAndUnitStrings(t *testing.T) {
	if Asc.String() != "ASC" || Desc.String() != "DESC" {
		t.Error("unexpected order rendering")
	}
	units := map[Unit]string{Meters: "m", Kilometers: "km", Miles: "mi", Feet: "ft"}
	for u, want := range units {
		if u.String() != want {
			t.Errorf("%d renders %q, want %q", u, u.String(), want)
		}
	}
}
