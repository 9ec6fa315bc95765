package chi

import (
	"context"
	"net/http"
	"strings"
)

type tokenKey struct{}

// schemes are stripped from the Authorization header. Anything else is
// passed through as the raw token.
var schemes = []string{"Bearer ", "OAuth "}

// ContextWithToken stores the caller credential in ctx.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the caller credential, or "" for anonymous calls.
func TokenFromContext(ctx context.Context) string {
	if t, ok := ctx.Value(tokenKey{}).(string); ok {
		return t
	}
	return ""
}

// CredentialMiddleware copies the Authorization header into the request
// context. It never rejects a request: an absent credential means an
// anonymous caller, and an invalid one is reported by the workspace service.
func CredentialMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := credential(r.Header.Get("Authorization"))
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithToken(r.Context(), token)))
	})
}

func credential(header string) string {
	header = strings.TrimSpace(header)
	for _, s := range schemes {
		if len(header) >= len(s) && strings.EqualFold(header[:len(s)], s) {
			return strings.TrimSpace(header[len(s):])
		}
	}
	return header
}
