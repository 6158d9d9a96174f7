package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alijeyrad/vlog_backend/pkg/imagehost"
	"github.com/Alijeyrad/vlog_backend/pkg/metrics"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type UploadResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
	// BadInput separates caller mistakes from host failures.
	BadInput bool `json:"-"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// UploadImage never panics and never returns an error: failures are
	// described by the result.
	UploadImage(ctx context.Context, data []byte) UploadResult
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type mediaService struct {
	host imagehost.Uploader
	opts imagehost.Options
}

func New(host imagehost.Uploader, opts imagehost.Options) Service {
	return &mediaService{host: host, opts: opts}
}

func (s *mediaService) UploadImage(ctx context.Context, data []byte) (res UploadResult) {
	provider := s.host.Provider()

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "media: upload panicked", "provider", provider, "panic", r)
			res = UploadResult{Success: false, Error: msgUploadFailed}
		}
	}()

	img, err := imagehost.Prepare(data, s.opts)
	if err != nil {
		metrics.ObserveUpload(provider, metrics.OutcomeRejected, 0)
		return rejected(err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	url, err := s.host.Upload(ctx, img)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		if errors.Is(err, imagehost.ErrNotConfigured) {
			metrics.ObserveUpload(provider, metrics.OutcomeDisabled, 0)
			return UploadResult{Success: false, Error: msgNotConfigured}
		}

		metrics.ObserveUpload(provider, metrics.OutcomeFailed, elapsed)
		slog.ErrorContext(ctx, "media: upload failed", "provider", provider, "err", err)

		var hostErr *imagehost.HostError
		if errors.As(err, &hostErr) {
			return UploadResult{Success: false, Error: fmt.Sprintf(msgHostFailedFmt, hostErr.Message)}
		}
		return UploadResult{Success: false, Error: msgUploadFailed}
	}

	metrics.ObserveUpload(provider, metrics.OutcomeSuccess, elapsed)
	slog.InfoContext(ctx, "media: image uploaded", "provider", provider, "bytes", len(img.Data), "url", url)
	return UploadResult{Success: true, ImageURL: url}
}

func rejected(err error) UploadResult {
	msg := msgUnsupported
	switch {
	case errors.Is(err, imagehost.ErrEmpty):
		msg = msgNoFile
	case errors.Is(err, imagehost.ErrTooLarge):
		msg = msgTooLarge
	}
	return UploadResult{Success: false, Error: msg, BadInput: true}
}
