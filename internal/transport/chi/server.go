// Package chi serves the read-only admin HTTP surface over a search backend.
package chi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ftkit/internal/db"
	"github.com/kailas-cloud/ftkit/internal/logger"
	"github.com/kailas-cloud/ftkit/internal/metrics"
	"github.com/kailas-cloud/ftkit/internal/version"
	"github.com/kailas-cloud/ftkit/pkg/query"
	"github.com/kailas-cloud/ftkit/pkg/result"
)

const healthTimeout = 2 * time.Second

// Backend is the subset of ft.Client the admin surface reads from.
type Backend interface {
	List(ctx context.Context) ([]string, error)
	Info(ctx context.Context, name string) (*result.Info, error)
	Search(ctx context.Context, name string, def *query.Definition) (*result.SearchResult, error)
}

// SearchDefaults bounds the queries built from request parameters.
type SearchDefaults struct {
	Dialect      int
	DefaultLimit int
	MaxLimit     int
}

// Server handles admin requests.
type Server struct {
	backend       Backend
	pinger        db.Pinger
	search        SearchDefaults
	apiKeys       []string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an admin server.
func NewServer(backend Backend, pinger db.Pinger, search SearchDefaults, apiKeys []string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		backend:       backend,
		pinger:        pinger,
		search:        search,
		apiKeys:       apiKeys,
		logger:        log,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Router builds the chi router with the full middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(accessLog(s.logger))
	r.Use(BearerAuthMiddleware(s.apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/indexes", func(r chi.Router) {
		r.Get("/", s.ListIndexes)
		r.Get("/{name}", s.GetIndex)
		r.Get("/{name}/search", s.SearchIndex)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	return r
}

type healthResponse struct {
	Status string       `json:"status"`
	Build  version.Info `json:"build"`
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.requestLogger(r).Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: codeUnavailable, Build: version.Get()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: version.Get()})
}

type listResponse struct {
	Indexes []string `json:"indexes"`
}

// ListIndexes handles GET /v1/indexes.
func (s *Server) ListIndexes(w http.ResponseWriter, r *http.Request) {
	names, err := s.backend.List(r.Context())
	if err != nil {
		s.handleBackendError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, listResponse{Indexes: names})
}

type attributeResponse struct {
	Identifier string   `json:"identifier"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Flags      []string `json:"flags,omitempty"`
}

type indexResponse struct {
	Name           string              `json:"name"`
	KeyType        string              `json:"key_type"`
	Prefixes       []string            `json:"prefixes"`
	NumDocs        int64               `json:"num_docs"`
	NumTerms       int64               `json:"num_terms"`
	NumRecords     int64               `json:"num_records"`
	Indexing       bool                `json:"indexing"`
	PercentIndexed float64             `json:"percent_indexed"`
	Failures       int64               `json:"hash_indexing_failures"`
	Attributes     []attributeResponse `json:"attributes"`
}

// GetIndex handles GET /v1/indexes/{name}.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	info, err := s.backend.Info(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.handleBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, infoToResponse(info))
}

func infoToResponse(info *result.Info) indexResponse {
	attrs := make([]attributeResponse, len(info.Attributes))
	for i, a := range info.Attributes {
		attrs[i] = attributeResponse{
			Identifier: a.Identifier,
			Name:       a.Name,
			Type:       a.Type,
			Flags:      a.Flags,
		}
	}
	prefixes := info.Definition.Prefixes
	if prefixes == nil {
		prefixes = []string{}
	}
	return indexResponse{
		Name:           info.IndexName,
		KeyType:        info.Definition.KeyType,
		Prefixes:       prefixes,
		NumDocs:        info.NumDocs,
		NumTerms:       info.NumTerms,
		NumRecords:     info.NumRecords,
		Indexing:       info.Indexing,
		PercentIndexed: info.PercentIndexed,
		Failures:       info.HashIndexingFailures,
		Attributes:     attrs,
	}
}

type documentResponse struct {
	Key    string            `json:"key"`
	Score  float64           `json:"score"`
	Fields map[string]string `json:"fields"`
}

type searchResponse struct {
	Total     int64              `json:"total"`
	Documents []documentResponse `json:"documents"`
}

// SearchIndex handles GET /v1/indexes/{name}/search?q=&offset=&limit=.
func (s *Server) SearchIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		q = "*"
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil || offset < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "offset must be a non-negative integer")
		return
	}
	limit, err := intParam(r, "limit", s.search.DefaultLimit)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a non-negative integer")
		return
	}
	if s.search.MaxLimit > 0 && limit > s.search.MaxLimit {
		limit = s.search.MaxLimit
	}

	b := query.New(q).WithScores().Limit(offset, limit)
	if s.search.Dialect > 0 {
		b.Dialect(s.search.Dialect)
	}
	def, err := b.Build()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	res, err := s.backend.Search(r.Context(), chi.URLParam(r, "name"), def)
	if err != nil {
		s.handleBackendError(w, r, err)
		return
	}

	resp := searchResponse{Total: res.Total, Documents: make([]documentResponse, 0, res.Len())}
	for doc, err := range res.Documents() {
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		resp.Documents = append(resp.Documents, documentResponse{
			Key:    doc.Key,
			Score:  doc.Score,
			Fields: doc.Fields.Map(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if l := logger.FromContext(r.Context()); l.Core().Enabled(zap.ErrorLevel) {
		return l
	}
	return s.logger
}
