package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Alijeyrad/vlog_backend/config"
)

// Client writes publicly readable objects to an S3-compatible bucket and
// hands back their public URL.
type Client struct {
	s3      *s3.Client
	bucket  string
	baseURL string
}

// Configured reports whether every value New needs is present.
func Configured(cfg config.S3Config) bool {
	return cfg.Bucket != "" && cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" && cfg.PublicBaseURL != ""
}

func New(ctx context.Context, cfg config.S3Config) (*Client, error) {
	if !Configured(cfg) {
		return nil, fmt.Errorf("s3: bucket, credentials and public_base_url are required")
	}
	if _, err := url.ParseRequestURI(cfg.PublicBaseURL); err != nil {
		return nil, fmt.Errorf("s3: public_base_url: %w", err)
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx,
		awscfg.WithRegion(cfg.Region),
		awscfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	cli := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// most S3-compatible hosts only route path-style requests
			o.UsePathStyle = true
		}
	})

	return &Client{
		s3:      cli,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// PutPublic uploads body under key with a public-read ACL and returns the
// object's public URL.
func (c *Client) PutPublic(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %q: %w", key, err)
	}
	return c.PublicURL(key), nil
}

func (c *Client) PublicURL(key string) string {
	return c.baseURL + "/" + strings.TrimPrefix(key, "/")
}
