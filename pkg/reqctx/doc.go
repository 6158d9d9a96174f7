// Package reqctx carries request-scoped data through context.Context:
// request metadata set by the HTTP middleware and the authenticated admin
// principal. Context keys are unexported; use the typed accessors.
package reqctx
