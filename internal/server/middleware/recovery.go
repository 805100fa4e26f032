package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/geolens/geolens/internal/metrics"
	"github.com/geolens/geolens/internal/observability"
)

// ErrorResponse is the JSON error envelope every failure path writes.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Recovery converts panics into 500 responses instead of dropped
// connections.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				metrics.RecordPanic()
				observability.Logger().Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.String("request_id", GetRequestID(r.Context())),
					zap.ByteString("stack", debug.Stack()),
				)
				WriteErrorEnvelope(w, r, http.StatusInternalServerError,
					"internal_error", fmt.Sprintf("panic: %v", rec))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// WriteErrorEnvelope writes the standard JSON error envelope with the
// request's correlation ID attached.
func WriteErrorEnvelope(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	response := ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: GetRequestID(r.Context()),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}
