package chi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const (
	contractLegacy = "v1"
	legacyVersion  = "1.1"
	legacyErrName  = "JSONRPCError"
	// legacyModule is the optional method-name prefix of the legacy contract.
	legacyModule = "KBaseSearchEngine."
)

type legacyRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type legacyErrDetail struct {
	Message string `json:"message"`
}

type legacyError struct {
	Name    string           `json:"name"`
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Error   *legacyErrDetail `json:"error,omitempty"`
}

type legacyResponse struct {
	Version string          `json:"version"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  []any           `json:"result,omitempty"`
	Error   *legacyError    `json:"error,omitempty"`
}

func (s *Server) legacyTable() map[string]method {
	return map[string]method{
		"search_objects": bind(s.legacy.SearchObjects),
		"search_types":   bind(s.legacy.SearchTypes),
		"get_objects":    bind(s.legacy.GetObjects),
		"list_types":     bindStatic(s.legacy.ListTypes),
		"status":         bindStatic(s.legacy.Status),
	}
}

// handleLegacy serves one JSON-RPC 1.1 call. Errors are reported inside
// the envelope with HTTP 200.
func (s *Server) handleLegacy(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := readBody(r)
	if err != nil {
		writeLegacyError(w, nil, newRPCError(CodeParseError, "Parse error", err.Error()))
		return
	}
	var req legacyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeLegacyError(w, nil, newRPCError(CodeParseError, "Parse error", err.Error()))
		return
	}
	if req.Method == "" {
		writeLegacyError(w, req.ID, newRPCError(CodeInvalidRequest, "Invalid request", "method is required"))
		return
	}

	name := strings.TrimPrefix(req.Method, legacyModule)
	call, ok := s.legacyMethods[name]
	if !ok {
		observe(r, contractLegacy, "unknown", CodeMethodNotFound, start)
		writeLegacyError(w, req.ID, newRPCError(CodeMethodNotFound, "Method not found", req.Method))
		return
	}

	res, err := call(r.Context(), req.Params)
	if err != nil {
		re := s.toRPCError(r, err)
		observe(r, contractLegacy, name, re.Code, start)
		writeLegacyError(w, req.ID, re)
		return
	}
	observe(r, contractLegacy, name, 0, start)
	writeJSON(w, http.StatusOK, legacyResponse{Version: legacyVersion, ID: req.ID, Result: []any{res}})
}

func writeLegacyError(w http.ResponseWriter, id json.RawMessage, e *rpcError) {
	le := &legacyError{Name: legacyErrName, Code: e.Code, Message: e.Message}
	if e.Detail != "" {
		le.Error = &legacyErrDetail{Message: e.Detail}
	}
	writeJSON(w, http.StatusOK, legacyResponse{Version: legacyVersion, ID: id, Error: le})
}
