package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/matsen/kbm/internal/corpus"
	"github.com/matsen/kbm/internal/duplicate"
	"github.com/matsen/kbm/internal/insights"
	"github.com/matsen/kbm/internal/layout"
)

var (
	errThrottled  = errors.New("too many render requests, retry shortly")
	errBadRequest = errors.New("bad request")
)

type ctxKey int

const requestIDKey ctxKey = iota

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request id stored by the request-id middleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, corpus.ErrNotFound),
		errors.Is(err, duplicate.ErrPairNotFound),
		errors.Is(err, insights.ErrClusterNotFound):
		return http.StatusNotFound
	case errors.Is(err, duplicate.ErrInvalidStatus),
		errors.Is(err, duplicate.ErrEmptyPairID),
		errors.Is(err, insights.ErrUnknownKind),
		errors.Is(err, insights.ErrInvalidClusterID),
		errors.Is(err, layout.ErrUnknownMode),
		errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errThrottled):
		return http.StatusTooManyRequests
	case errors.Is(err, corpus.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status, logging server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("requestID", RequestIDFrom(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	writeError(w, status, err)
}
