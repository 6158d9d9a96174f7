package reqctx

import (
	"context"
	"log/slog"
)

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey int

const (
	keyRequestMeta ctxKey = iota
	keyPrincipal
)

// RequestMeta holds per-request metadata set by HTTP middleware.
type RequestMeta struct {
	// RequestID is a UUID, or whatever the client sent in X-Request-Id.
	RequestID string
	ClientIP  string
}

// WithRequestMeta stores RequestMeta in the context.
func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, keyRequestMeta, meta)
}

// RequestMetaFromContext returns nil, false if not set.
func RequestMetaFromContext(ctx context.Context) (*RequestMeta, bool) {
	meta, ok := ctx.Value(keyRequestMeta).(*RequestMeta)
	return meta, ok && meta != nil
}

// LogAttrs returns the request id, client ip and admin username found in
// ctx. pkg/logs adds them to every record logged with a context.
func LogAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	if meta, ok := RequestMetaFromContext(ctx); ok {
		attrs = append(attrs,
			slog.String("request_id", meta.RequestID),
			slog.String("client_ip", meta.ClientIP),
		)
	}
	if p, ok := PrincipalFromContext(ctx); ok {
		attrs = append(attrs, slog.String("admin", p.Username))
	}
	return attrs
}
