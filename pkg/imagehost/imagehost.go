// Package imagehost uploads images to an external host and returns the
// hosted URL. Providers: Cloudinary and S3-compatible storage.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alijeyrad/vlog_backend/config"
	s3pkg "github.com/Alijeyrad/vlog_backend/pkg/s3"
)

const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

var (
	ErrNotConfigured = errors.New("imagehost: provider is not configured")
	ErrEmpty         = errors.New("imagehost: empty image")
	ErrTooLarge      = errors.New("imagehost: image too large")
	ErrUnsupported   = errors.New("imagehost: unsupported image format")
)

// HostError is a failure reported by the host itself. Message is safe to
// show to the uploader.
type HostError struct {
	Provider string
	Message  string
}

func (e *HostError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

type Image struct {
	Data        []byte
	ContentType string
	// Ext includes the dot, e.g. ".png".
	Ext    string
	Width  int
	Height int
}

type Uploader interface {
	Upload(ctx context.Context, img Image) (url string, err error)
	Provider() string
}

// Options are the upload checks applied before any provider is called.
type Options struct {
	MaxBytes int64
	MaxWidth int
	Timeout  time.Duration
	Folder   string
}

func OptionsFromConfig(c config.MediaConfig) Options {
	o := Options{
		MaxBytes: c.MaxUploadBytes,
		MaxWidth: c.MaxWidth,
		Timeout:  time.Duration(c.TimeoutSeconds) * time.Second,
		Folder:   c.Folder,
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = 5 << 20
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}

// New builds the configured provider. Missing secrets are not an error: the
// returned uploader is disabled and fails every call with ErrNotConfigured.
func New(ctx context.Context, media config.MediaConfig, s3cfg config.S3Config) (Uploader, error) {
	switch media.Provider {
	case ProviderCloudinary, "":
		c := media.Cloudinary
		if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
			slog.Warn("imagehost: cloudinary credentials missing, uploads disabled")
			return Disabled{Name: ProviderCloudinary}, nil
		}
		return NewCloudinary(c, media.Folder)

	case ProviderS3:
		if !s3pkg.Configured(s3cfg) {
			slog.Warn("imagehost: s3 settings missing, uploads disabled")
			return Disabled{Name: ProviderS3}, nil
		}
		cli, err := s3pkg.New(ctx, s3cfg)
		if err != nil {
			return nil, err
		}
		return NewS3(cli, media.Folder), nil

	default:
		return nil, fmt.Errorf("imagehost: unknown provider %q", media.Provider)
	}
}

// Disabled stands in for a provider whose configuration is incomplete.
type Disabled struct {
	Name string
}

func (d Disabled) Upload(context.Context, Image) (string, error) { return "", ErrNotConfigured }

func (d Disabled) Provider() string { return d.Name }
