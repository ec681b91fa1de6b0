package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RPCHandler handles JSON-RPC method dispatch.
type RPCHandler interface {
	Handle(ctx context.Context, tenantID, taskSID, method string, params json.RawMessage) (any, error)
}

// codedError is an application error with a stable code.
type codedError interface {
	error
	CodeValue() string
	MessageValue() string
	RecoveryHintValue() string
}

// ErrorData is the data member of application errors.
type ErrorData struct {
	Code         string `json:"code"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

// Server wires HTTP handlers.
type Server struct {
	handler RPCHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler RPCHandler, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)

	srv := &Server{handler: handler, logger: logger}
	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Use(TaskMiddleware)
		r.Post("/rpc", srv.handleRPC)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		code := ErrInvalidReq
		if errors.Is(err, ErrParse) {
			code = ErrParseCode
		}
		WriteError(w, nil, code, "invalid request", nil)
		return
	}

	tenantID, _ := TenantFromContext(r.Context())
	if tenantID == "" {
		tenantID = DefaultTenant
	}
	taskSID, _ := TaskSIDFromContext(r.Context())
	requestID, _ := RequestIDFromContext(r.Context())

	result, err := s.handler.Handle(r.Context(), tenantID, taskSID, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			challenge(w, "invalid_token", "unauthorized")
			return
		}
		s.logger.Warn("rpc failed", "request_id", requestID, "method", req.Method, "task_sid", taskSID, "error", err)
		var coded codedError
		if errors.As(err, &coded) {
			WriteError(w, req.ID, ErrApplication, coded.MessageValue(), ErrorData{
				Code:         coded.CodeValue(),
				RecoveryHint: coded.RecoveryHintValue(),
			})
			return
		}
		if errors.Is(err, ErrUnknownMethod) {
			WriteError(w, req.ID, ErrMethodNotFound, err.Error(), nil)
			return
		}
		WriteError(w, req.ID, ErrInternal, err.Error(), nil)
		return
	}

	WriteResult(w, req.ID, result)
}
