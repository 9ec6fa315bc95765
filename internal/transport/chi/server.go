// Package chi exposes the search use cases over HTTP: the legacy JSON-RPC 1.1
// endpoint, the modern JSON-RPC 2.0 endpoint, liveness, health and metrics.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	domlegacy "github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/request"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/searchapi/internal/logger"
	"github.com/kailas-cloud/searchapi/internal/metrics"
	healthuc "github.com/kailas-cloud/searchapi/internal/usecase/health"
)

// LegacyService is the v1 contract adapter.
type LegacyService interface {
	SearchObjects(ctx context.Context, token string, p domlegacy.SearchObjectsParams) (domlegacy.SearchObjectsResult, error)
	SearchTypes(ctx context.Context, token string, p domlegacy.SearchTypesParams) (domlegacy.SearchTypesResult, error)
	GetObjects(ctx context.Context, token string, p domlegacy.GetObjectsParams) (domlegacy.GetObjectsResult, error)
	ListTypes(ctx context.Context) map[string]any
	Status(ctx context.Context) domlegacy.StatusResult
}

// SearchService is the v2 contract adapter.
type SearchService interface {
	SearchObjects(ctx context.Context, token string, p request.SearchObjects) (result.Raw, error)
	SearchTypes(ctx context.Context, token string, p request.SearchTypes) (result.TypeCounts, error)
	GetObjects(ctx context.Context, token string, p request.GetObjects) (result.Raw, error)
	SearchWorkspace(ctx context.Context, token string, p request.SearchWorkspace) (result.WorkspaceHits, error)
	ShowIndexes(ctx context.Context) ([]result.IndexInfo, error)
	ShowConfig(ctx context.Context) map[string]any
}

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Options configures the router.
type Options struct {
	// CORSOrigins enables CORS for the listed origins; "*" allows any.
	CORSOrigins []string
}

// Server routes JSON-RPC calls to the contract adapters.
type Server struct {
	legacy        LegacyService
	search        SearchService
	health        HealthChecker
	logger        *zap.Logger
	opts          Options
	errorHandlers []errorHandler
	legacyMethods map[string]method
	modernMethods map[string]method
}

// NewServer creates a Server.
func NewServer(legacy LegacyService, search SearchService, health HealthChecker, logger *zap.Logger, opts Options) *Server {
	s := &Server{
		legacy:        legacy,
		search:        search,
		health:        health,
		logger:        logger,
		opts:          opts,
		errorHandlers: defaultErrorHandlers(),
	}
	s.legacyMethods = s.legacyTable()
	s.modernMethods = s.modernTable()
	return s
}

// Router builds the HTTP handler with the full middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}
	r.Use(CredentialMiddleware)

	r.Get("/", liveness)
	r.Get("/status", liveness)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/rpc", s.handleModern)
	r.Get("/rpc", func(w http.ResponseWriter, r *http.Request) {
		s.writeModernError(w, r, nil, newRPCError(CodeInvalidRequest, "Invalid request", "use POST"))
	})

	r.HandleFunc("/legacy", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleLegacy(w, r)
	})

	return r
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type healthResponse struct {
	Status           string            `json:"status"`
	Checks           map[string]string `json:"checks"`
	WorkspaceVersion string            `json:"workspace_version,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{
		Status:           string(report.Status),
		Checks:           checks,
		WorkspaceVersion: report.WorkspaceVersion,
	})
}

// observe records one dispatched RPC call in metrics and the request log.
func observe(r *http.Request, contract, method string, code int, start time.Time) {
	metrics.ObserveRPC(contract, method, code)
	logpkg.FromContext(r.Context()).Info("rpc_call",
		zap.String("contract", contract),
		zap.String("method", method),
		zap.Int("code", code),
		zap.Duration("duration", time.Since(start)),
	)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					writeJSON(w, http.StatusInternalServerError, modernResponse{
						JSONRPC: jsonRPCVersion,
						ID:      json.RawMessage("null"),
						Error:   newModernError(newRPCError(CodeServerError, "Server error", "")),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
