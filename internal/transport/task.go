package transport

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Headers read and written by the RPC server.
const (
	TaskHeader      = "X-Task-Sid"
	RequestIDHeader = "X-Request-Id"
)

type taskKey struct{}
type requestIDKey struct{}

// TaskSIDFromContext returns the task SID from context, if present.
func TaskSIDFromContext(ctx context.Context) (string, bool) {
	taskSID, ok := ctx.Value(taskKey{}).(string)
	return taskSID, ok
}

// WithTaskSID returns ctx carrying taskSID.
func WithTaskSID(ctx context.Context, taskSID string) context.Context {
	return context.WithValue(ctx, taskKey{}, taskSID)
}

// RequestIDFromContext returns the request ID from context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// TaskMiddleware extracts X-Task-Sid and stores it in context.
func TaskMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if taskSID := r.Header.Get(TaskHeader); taskSID != "" {
			r = r.WithContext(WithTaskSID(r.Context(), taskSID))
		}
		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware keeps the caller's X-Request-Id or assigns a new one,
// and echoes it on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
