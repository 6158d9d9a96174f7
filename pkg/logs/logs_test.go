package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Alijeyrad/vlog_backend/config"
	"github.com/Alijeyrad/vlog_backend/pkg/reqctx"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}
	logger := slog.New(h).With("service", "vlog")

	logger.Info("post created")
	logger.Warn("cache invalidation failed")

	if !strings.Contains(debugBuf.String(), "post created") || !strings.Contains(debugBuf.String(), "cache invalidation failed") {
		t.Errorf("debug handler output = %q", debugBuf.String())
	}
	if strings.Contains(warnBuf.String(), "post created") {
		t.Errorf("warn handler received info record: %q", warnBuf.String())
	}
	if !strings.Contains(warnBuf.String(), "service=vlog") {
		t.Errorf("attrs not propagated: %q", warnBuf.String())
	}
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(debug) = false")
	}
}

func TestContextHandler_AddsRequestAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(contextHandler{slog.NewJSONHandler(&buf, nil)}).With("service", "vlog")

	ctx := reqctx.WithRequestMeta(context.Background(), &reqctx.RequestMeta{RequestID: "rid-9", ClientIP: "10.0.0.7"})
	ctx = reqctx.WithPrincipal(ctx, &reqctx.Principal{Username: "admin"})
	logger.ErrorContext(ctx, "vlog: create post failed", "slug", "camp")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	for k, want := range map[string]string{"request_id": "rid-9", "client_ip": "10.0.0.7", "admin": "admin", "slug": "camp", "service": "vlog"} {
		if rec[k] != want {
			t.Errorf("%s = %v, want %q", k, rec[k], want)
		}
	}

	buf.Reset()
	logger.Info("no request")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("request_id logged without a request: %q", buf.String())
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	cfg := &config.Config{}
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.Logging.Output.File.Enabled = true
	cfg.Logging.Output.File.Path = path
	cfg.Logging.Output.File.MaxSizeMB = 1
	cfg.Observability.ServiceName = "vlog"

	New(cfg).Info("hello")
}

func TestLokiWriter_Push(t *testing.T) {
	var got lokiPush
	var user string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/push" {
			t.Errorf("path = %s", r.URL.Path)
		}
		user, _, _ = r.BasicAuth()
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Logging.Output.Loki.Endpoint = srv.URL + "/"
	cfg.Logging.Output.Loki.Username = "grafana"
	cfg.Observability.ServiceName = "vlog"
	cfg.Server.Environment = "production"

	lw := newLokiWriter(cfg)
	lw.now = func() time.Time { return time.Unix(0, 42) }

	line := `{"msg":"quote \" inside"}` + "\n"
	if _, err := lw.Write([]byte(line)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if user != "grafana" {
		t.Errorf("basic auth user = %q", user)
	}
	if len(got.Streams) != 1 {
		t.Fatalf("streams = %+v", got.Streams)
	}
	s := got.Streams[0]
	if s.Stream["service"] != "vlog" || s.Stream["env"] != "production" {
		t.Errorf("labels = %v", s.Stream)
	}
	if s.Values[0][0] != "42" || s.Values[0][1] != strings.TrimSpace(line) {
		t.Errorf("values = %v", s.Values)
	}
}

func TestLokiWriter_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Logging.Output.Loki.Endpoint = srv.URL

	if _, err := newLokiWriter(cfg).Write([]byte("x\n")); err == nil {
		t.Error("expected error on 400")
	}
}
