package chi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	contractModern = "v2"
	jsonRPCVersion = "2.0"
)

type modernRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type modernError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    *modernErrData `json:"data,omitempty"`
}

type modernErrData struct {
	Message string `json:"message"`
}

type modernResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *modernError    `json:"error,omitempty"`
}

func newModernError(e *rpcError) *modernError {
	me := &modernError{Code: e.Code, Message: e.Message}
	if e.Detail != "" {
		me.Data = &modernErrData{Message: e.Detail}
	}
	return me
}

func (s *Server) modernTable() map[string]method {
	return map[string]method{
		"search_objects":   bind(s.search.SearchObjects),
		"search_types":     bind(s.search.SearchTypes),
		"get_objects":      bind(s.search.GetObjects),
		"search_workspace": bind(s.search.SearchWorkspace),
		"show_indexes":     bindNoParams(s.search.ShowIndexes),
		"show_config":      bindStatic(s.search.ShowConfig),
	}
}

// handleModern serves one JSON-RPC 2.0 call. A missing id is replaced by a
// generated one so every response can be correlated.
func (s *Server) handleModern(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := readBody(r)
	if err != nil {
		s.writeModernError(w, r, nil, newRPCError(CodeParseError, "Parse error", err.Error()))
		return
	}
	var req modernRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeModernError(w, r, nil, newRPCError(CodeParseError, "Parse error", err.Error()))
		return
	}
	if len(bytes.TrimSpace(req.ID)) == 0 || bytes.Equal(req.ID, []byte("null")) {
		req.ID = quoted(uuid.NewString())
	}
	if req.Method == "" {
		s.writeModernError(w, r, req.ID, newRPCError(CodeInvalidRequest, "Invalid request", "method is required"))
		return
	}

	call, ok := s.modernMethods[req.Method]
	if !ok {
		observe(r, contractModern, "unknown", CodeMethodNotFound, start)
		s.writeModernError(w, r, req.ID, newRPCError(CodeMethodNotFound, "Method not found", req.Method))
		return
	}

	res, err := call(r.Context(), req.Params)
	if err != nil {
		re := s.toRPCError(r, err)
		observe(r, contractModern, req.Method, re.Code, start)
		s.writeModernError(w, r, req.ID, re)
		return
	}
	observe(r, contractModern, req.Method, 0, start)
	writeJSON(w, http.StatusOK, modernResponse{JSONRPC: jsonRPCVersion, ID: req.ID, Result: res})
}

func (s *Server) writeModernError(w http.ResponseWriter, _ *http.Request, id json.RawMessage, e *rpcError) {
	if id == nil {
		id = json.RawMessage("null")
	}
	writeJSON(w, e.httpStatus(), modernResponse{JSONRPC: jsonRPCVersion, ID: id, Error: newModernError(e)})
}

func quoted(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
