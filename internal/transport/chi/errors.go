package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ftkit/pkg/ft"
	"github.com/kailas-cloud/ftkit/pkg/reply"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeNotFound     = "not_found"
	codeUnavailable  = "unavailable"
	codeBadGateway   = "bad_gateway"
	codeInternal     = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a backend error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// sentinelHandler matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// serverErrorHandler reports commands the backend rejected, such as a query
// syntax error. The message comes from the backend and names no internals.
func serverErrorHandler(w http.ResponseWriter, err error) bool {
	se, ok := reply.IsServerError(err)
	if !ok {
		return false
	}
	writeError(w, http.StatusBadRequest, codeBadRequest, se.Message)
	return true
}

// shapeErrorHandler reports replies that could not be decoded.
func shapeErrorHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, reply.ErrShape) {
		return false
	}
	writeError(w, http.StatusBadGateway, codeBadGateway, "unexpected reply from search backend")
	return true
}

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(ft.ErrIndexNotFound, http.StatusNotFound, codeNotFound),
		serverErrorHandler,
		shapeErrorHandler,
	}
}

func (s *Server) handleBackendError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	log.Warn("backend error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}
