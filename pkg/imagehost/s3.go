package imagehost

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/google/uuid"
)

// S3Client is the part of pkg/s3 the provider needs.
type S3Client interface {
	PutPublic(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// S3 stores images as public objects named <folder>/<uuid><ext>.
type S3 struct {
	cli    S3Client
	folder string
}

func NewS3(cli S3Client, folder string) *S3 {
	return &S3{cli: cli, folder: folder}
}

func (s *S3) Provider() string { return ProviderS3 }

func (s *S3) Upload(ctx context.Context, img Image) (string, error) {
	key := path.Join(s.folder, uuid.NewString()+img.Ext)
	return s.cli.PutPublic(ctx, key, img.ContentType, bytes.NewReader(img.Data), int64(len(img.Data)))
}
