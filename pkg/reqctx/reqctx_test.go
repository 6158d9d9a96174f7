package reqctx

import (
	"context"
	"testing"
)

func TestRequestMeta(t *testing.T) {
	if _, ok := RequestMetaFromContext(context.Background()); ok {
		t.Error("empty context reported request meta")
	}

	ctx := WithRequestMeta(context.Background(), &RequestMeta{RequestID: "rid-1"})
	meta, ok := RequestMetaFromContext(ctx)
	if !ok || meta.RequestID != "rid-1" {
		t.Errorf("RequestMetaFromContext = %+v, %v", meta, ok)
	}
}

func TestPrincipal(t *testing.T) {
	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Error("anonymous context reported a principal")
	}

	ctx := WithPrincipal(context.Background(), &Principal{Username: "admin", Role: "admin", SessionID: "s1"})
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.Username != "admin" {
		t.Fatalf("PrincipalFromContext = %+v, %v", p, ok)
	}

	var nilP *Principal
	if _, ok := PrincipalFromContext(WithPrincipal(context.Background(), nilP)); ok {
		t.Error("nil principal reported present")
	}
}

func TestLogAttrs(t *testing.T) {
	if attrs := LogAttrs(context.Background()); len(attrs) != 0 {
		t.Errorf("attrs on empty context = %v", attrs)
	}

	ctx := WithRequestMeta(context.Background(), &RequestMeta{RequestID: "rid-2", ClientIP: "10.0.0.7"})
	ctx = WithPrincipal(ctx, &Principal{Username: "admin"})

	got := map[string]string{}
	for _, a := range LogAttrs(ctx) {
		got[a.Key] = a.Value.String()
	}
	want := map[string]string{"request_id": "rid-2", "client_ip": "10.0.0.7", "admin": "admin"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}
