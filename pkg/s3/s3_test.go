package s3

import (
	"context"
	"testing"

	"github.com/Alijeyrad/vlog_backend/config"
)

func TestConfigured(t *testing.T) {
	full := config.S3Config{
		Bucket: "media", AccessKeyID: "ak", SecretAccessKey: "sk",
		PublicBaseURL: "https://cdn.example.com",
	}
	if !Configured(full) {
		t.Error("full config reported as not configured")
	}

	missing := full
	missing.SecretAccessKey = ""
	if Configured(missing) {
		t.Error("config without secret reported as configured")
	}
	if _, err := New(context.Background(), missing); err == nil {
		t.Error("New() should fail without credentials")
	}
}

func TestPublicURL(t *testing.T) {
	c, err := New(context.Background(), config.S3Config{
		Region: "us-east-1", Bucket: "media", AccessKeyID: "ak", SecretAccessKey: "sk",
		PublicBaseURL: "https://cdn.example.com/",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := c.PublicURL("/vlogs/a.jpg"); got != "https://cdn.example.com/vlogs/a.jpg" {
		t.Errorf("PublicURL() = %q", got)
	}
}
