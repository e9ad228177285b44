package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/ftkit/pkg/ft"
	"github.com/kailas-cloud/ftkit/pkg/query"
	"github.com/kailas-cloud/ftkit/pkg/reply"
	"github.com/kailas-cloud/ftkit/pkg/result"
)

// mockBackend is a function-field fake of Backend.
type mockBackend struct {
	listFn   func(ctx context.Context) ([]string, error)
	infoFn   func(ctx context.Context, name string) (*result.Info, error)
	searchFn func(ctx context.Context, name string, def *query.Definition) (*result.SearchResult, error)
}

func (m *mockBackend) List(ctx context.Context) ([]string, error) {
	return m.listFn(ctx)
}

func (m *mockBackend) Info(ctx context.Context, name string) (*result.Info, error) {
	return m.infoFn(ctx, name)
}

func (m *mockBackend) Search(ctx context.Context, name string, def *query.Definition) (*result.SearchResult, error) {
	return m.searchFn(ctx, name, def)
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

var testDefaults = SearchDefaults{Dialect: 2, DefaultLimit: 10, MaxLimit: 50}

func newTestServer(b Backend, p mockPinger) http.Handler {
	return NewServer(b, p, testDefaults, nil, zap.NewNop()).Router()
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rr := doGet(t, newTestServer(&mockBackend{}, mockPinger{}), "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeBody[healthResponse](t, rr)
	if resp.Status != "ok" || resp.Build.Version == "" {
		t.Errorf("unexpected body %+v", resp)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestHealth_Unavailable(t *testing.T) {
	rr := doGet(t, newTestServer(&mockBackend{}, mockPinger{err: errors.New("down")}), "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rr := doGet(t, newTestServer(&mockBackend{}, mockPinger{}), "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("expected default registry output")
	}
}

func TestListIndexes(t *testing.T) {
	b := &mockBackend{listFn: func(context.Context) ([]string, error) {
		return []string{"books", "movies"}, nil
	}}
	rr := doGet(t, newTestServer(b, mockPinger{}), "/v1/indexes")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeBody[listResponse](t, rr)
	if len(resp.Indexes) != 2 || resp.Indexes[1] != "movies" {
		t.Errorf("unexpected body %+v", resp)
	}
}

func TestListIndexes_Empty(t *testing.T) {
	b := &mockBackend{listFn: func(context.Context) ([]string, error) { return nil, nil }}
	rr := doGet(t, newTestServer(b, mockPinger{}), "/v1/indexes")
	if got := strings.TrimSpace(rr.Body.String()); got != `{"indexes":[]}` {
		t.Errorf("expected empty array, got %s", got)
	}
}

func TestGetIndex(t *testing.T) {
	b := &mockBackend{infoFn: func(_ context.Context, name string) (*result.Info, error) {
		if name != "books" {
			t.Errorf("expected name books, got %q", name)
		}
		return &result.Info{
			IndexName:  "books",
			NumDocs:    3,
			Definition: result.IndexDefinition{KeyType: "HASH", Prefixes: []string{"book:"}},
			Attributes: []result.Attribute{
				{Identifier: "title", Name: "title", Type: "TEXT", Flags: []string{"SORTABLE"}},
			},
		}, nil
	}}
	rr := doGet(t, newTestServer(b, mockPinger{}), "/v1/indexes/books")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeBody[indexResponse](t, rr)
	if resp.Name != "books" || resp.NumDocs != 3 || resp.KeyType != "HASH" {
		t.Errorf("unexpected body %+v", resp)
	}
	if len(resp.Attributes) != 1 || resp.Attributes[0].Flags[0] != "SORTABLE" {
		t.Errorf("unexpected attributes %+v", resp.Attributes)
	}
}

func TestGetIndex_NotFound(t *testing.T) {
	b := &mockBackend{infoFn: func(context.Context, string) (*result.Info, error) {
		return nil, ft.ErrIndexNotFound
	}}
	rr := doGet(t, newTestServer(b, mockPinger{}), "/v1/indexes/missing")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if resp := decodeBody[errorResponse](t, rr); resp.Code != codeNotFound {
		t.Errorf("expected code %s, got %s", codeNotFound, resp.Code)
	}
}

func searchReply(t *testing.T) *result.SearchResult {
	t.Helper()
	n := reply.Array(
		reply.Int(2),
		reply.Str("book:1"), reply.Str("1.5"), reply.Strs("title", "Dune"),
		reply.Str("book:2"), reply.Str("0.5"), reply.Strs("title", "Emma"),
	)
	res, err := result.DecodeSearch(n, result.Layout{WithScores: true})
	if err != nil {
		t.Fatalf("decode search: %v", err)
	}
	return res
}

func TestSearchIndex(t *testing.T) {
	var got []string
	b := &mockBackend{searchFn: func(_ context.Context, name string, def *query.Definition) (*result.SearchResult, error) {
		got = append([]string{name}, def.Args()...)
		return searchReply(t), nil
	}}
	rr := doGet(t, newTestServer(b, mockPinger{}), "/v1/indexes/books/search?q=dune&offset=5&limit=500")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	want := []string{"books", "dune", "WITHSCORES", "LIMIT", "5", "50", "DIALECT", "2"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("got %q, want %q", got, want)
	}

	resp := decodeBody[searchResponse](t, rr)
	if resp.Total != 2 || len(resp.Documents) != 2 {
		t.Fatalf("unexpected body %+v", resp)
	}
	if resp.Documents[0].Key != "book:1" || resp.Documents[0].Score != 1.5 || resp.Documents[0].Fields["title"] != "Dune" {
		t.Errorf("unexpected document %+v", resp.Documents[0])
	}
}

func TestSearchIndex_Defaults(t *testing.T) {
	var def *query.Definition
	b := &mockBackend{searchFn: func(_ context.Context, _ string, d *query.Definition) (*result.SearchResult, error) {
		def = d
		return &result.SearchResult{}, nil
	}}
	rr := doGet(t, newTestServer(b, mockPinger{}), "/v1/indexes/books/search")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if def.QueryString() != "*" {
		t.Errorf("expected match-all query, got %q", def.QueryString())
	}
	if !strings.Contains(def.String(), "LIMIT 0 10") {
		t.Errorf("expected default limit, got %s", def.String())
	}
}

func TestSearchIndex_BadParams(t *testing.T) {
	h := newTestServer(&mockBackend{}, mockPinger{})
	for _, target := range []string{
		"/v1/indexes/books/search?offset=-1",
		"/v1/indexes/books/search?limit=ten",
	} {
		if rr := doGet(t, h, target); rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rr.Code)
		}
	}
}

func TestSearchIndex_BackendErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"syntax", &ft.Error{Op: ft.OpSearch, Err: &reply.ServerError{Message: "Syntax error at offset 3"}}, http.StatusBadRequest},
		{"shape", &reply.ShapeError{Want: reply.TypeArray, Got: reply.TypeString}, http.StatusBadGateway},
		{"transport", &ft.Error{Op: ft.OpSearch, Err: context.DeadlineExceeded}, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := &mockBackend{searchFn: func(context.Context, string, *query.Definition) (*result.SearchResult, error) {
				return nil, tc.err
			}}
			rr := doGet(t, newTestServer(b, mockPinger{}), "/v1/indexes/books/search?q=x")
			if rr.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, rr.Code)
			}
		})
	}
}

func TestSearchIndex_DocumentDecodeError(t *testing.T) {
	b := &mockBackend{searchFn: func(context.Context, string, *query.Definition) (*result.SearchResult, error) {
		n := reply.Array(reply.Int(1), reply.Str("book:1"), reply.Str("not-a-score"), reply.Strs("a", "b"))
		return result.DecodeSearch(n, result.Layout{WithScores: true})
	}}
	rr := doGet(t, newTestServer(b, mockPinger{}), "/v1/indexes/books/search")
	if rr.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rr.Code)
	}
}

func TestRouter_Auth(t *testing.T) {
	b := &mockBackend{listFn: func(context.Context) ([]string, error) { return nil, nil }}
	h := NewServer(b, mockPinger{}, testDefaults, []string{"secret"}, nil).Router()

	if rr := doGet(t, h, "/v1/indexes"); rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if rr := doGet(t, h, "/health"); rr.Code != http.StatusOK {
		t.Errorf("expected health to bypass auth, got %d", rr.Code)
	}
}

func TestRouter_NotFound(t *testing.T) {
	rr := doGet(t, newTestServer(&mockBackend{}, mockPinger{}), "/nope")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if resp := decodeBody[errorResponse](t, rr); resp.Code != codeNotFound {
		t.Errorf("unexpected body %+v", resp)
	}
}

func TestRouter_PanicRecovered(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	b := &mockBackend{listFn: func(context.Context) ([]string, error) { panic("boom") }}
	h := NewServer(b, mockPinger{}, testDefaults, nil, zap.New(core)).Router()

	rr := doGet(t, h, "/v1/indexes")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("expected panic to be logged")
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	b := &mockBackend{listFn: func(context.Context) ([]string, error) { return []string{"a"}, nil }}
	h := NewServer(b, mockPinger{}, testDefaults, nil, zap.New(core)).Router()

	doGet(t, h, "/v1/indexes")

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] == "" || fields["path"] != "/v1/indexes" {
		t.Errorf("unexpected log fields %v", fields)
	}
}
