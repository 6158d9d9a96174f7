package imagehost

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/Alijeyrad/vlog_backend/config"
)

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(c config.CloudinaryConfig, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(c.CloudName, c.APIKey, c.APISecret)
	if err != nil {
		return nil, fmt.Errorf("imagehost: cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Provider() string { return ProviderCloudinary }

func (c *Cloudinary) Upload(ctx context.Context, img Image) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, bytes.NewReader(img.Data), uploader.UploadParams{
		ResourceType: "image",
		Folder:       c.folder,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", &HostError{Provider: ProviderCloudinary, Message: resp.Error.Message}
	}
	if resp.SecureURL == "" {
		return "", &HostError{Provider: ProviderCloudinary, Message: "no URL returned"}
	}
	return resp.SecureURL, nil
}
