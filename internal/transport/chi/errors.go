package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/logger"
)

// JSON-RPC error codes. The application codes are shared by both contracts.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeServerError    = -32000

	CodeUnknownType        = 1000
	CodeAuth               = 2000
	CodeUnknownIndex       = 3000
	CodeSearchEngine       = 4000
	CodeNoAccessGroup      = 5000
	CodeUserProfileService = 50000
	CodeNoUserProfile      = 50001
)

// rpcError is a contract-neutral error; each envelope renders it its own way.
type rpcError struct {
	Code    int
	Message string
	Detail  string
}

func (e *rpcError) Error() string { return e.Message }

// httpStatus is the modern endpoint status for an error code.
func (e *rpcError) httpStatus() int {
	if e.Code == CodeServerError {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func newRPCError(code int, message, detail string) *rpcError {
	return &rpcError{Code: code, Message: message, Detail: detail}
}

// errorHandler tries to map a domain error. Returns nil if not handled.
type errorHandler func(err error) *rpcError

func sentinelHandler(sentinel error, code int, message string) errorHandler {
	return func(err error) *rpcError {
		if !errors.Is(err, sentinel) {
			return nil
		}
		return newRPCError(code, message, detail(err))
	}
}

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrInvalidParameters, CodeInvalidParams, "Invalid params"),
		sentinelHandler(domain.ErrUnknownType, CodeUnknownType, "Unknown type"),
		sentinelHandler(domain.ErrAuth, CodeAuth, "Auth error"),
		sentinelHandler(domain.ErrUnknownIndex, CodeUnknownIndex, "Unknown index"),
		sentinelHandler(domain.ErrSearchEngine, CodeSearchEngine, "Elasticsearch server error"),
		sentinelHandler(domain.ErrNoAccessGroup, CodeNoAccessGroup, "Missing access group"),
		sentinelHandler(domain.ErrUserProfileService, CodeUserProfileService, "User profile service error"),
		sentinelHandler(domain.ErrNoUserProfile, CodeNoUserProfile, "Missing user profile"),
	}
}

// detail is the caller-visible diagnostic for a mapped error.
func detail(err error) string {
	var upe *domain.UserProfileServiceError
	if errors.As(err, &upe) {
		return upe.Error()
	}
	return domain.Detail(err)
}

// toRPCError maps err through the handler list. Unmatched errors are logged
// and reported as a bare server error.
func (s *Server) toRPCError(r *http.Request, err error) *rpcError {
	var re *rpcError
	if errors.As(err, &re) {
		return re
	}
	for _, h := range s.errorHandlers {
		if mapped := h(err); mapped != nil {
			logger.FromContext(r.Context()).Warn("domain error", zap.Error(err))
			return mapped
		}
	}
	logger.FromContext(r.Context()).Error("internal error", zap.Error(err))
	return newRPCError(CodeServerError, "Server error", "")
}
