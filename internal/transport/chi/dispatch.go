package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// maxBodyBytes bounds an RPC request body.
const maxBodyBytes = 16 << 20

// method is one dispatchable RPC method with its params still encoded.
type method func(ctx context.Context, params json.RawMessage) (any, error)

// bind adapts a use case call taking (token, params) into a method.
func bind[P, R any](fn func(context.Context, string, P) (R, error)) method {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var p P
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		return fn(ctx, TokenFromContext(ctx), p)
	}
}

// bindStatic adapts a call that takes no params and cannot fail.
func bindStatic[R any](fn func(context.Context) R) method {
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		return fn(ctx), nil
	}
}

// bindNoParams adapts a call that takes no params.
func bindNoParams[R any](fn func(context.Context) (R, error)) method {
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		return fn(ctx)
	}
}

// decodeParams decodes params into dst. Both contracts accept either a bare
// object or a singleton array holding it; absent params leave dst zero.
func decodeParams(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return newRPCError(CodeInvalidParams, "Invalid params", err.Error())
		}
		switch len(list) {
		case 0:
			return nil
		case 1:
			raw = list[0]
		default:
			return newRPCError(CodeInvalidParams, "Invalid params", "params must hold a single object")
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return newRPCError(CodeInvalidParams, "Invalid params", err.Error())
	}
	return nil
}

// readBody reads a bounded request body.
func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}
