package imagehost

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// maxPixels bounds the decoded size of an upload. A small file can declare
// dimensions that would need gigabytes once decoded.
const maxPixels = 40_000_000

var formats = map[string]struct{ contentType, ext string }{
	"gif":  {"image/gif", ".gif"},
	"jpeg": {"image/jpeg", ".jpg"},
	"png":  {"image/png", ".png"},
	"webp": {"image/webp", ".webp"},
}

// Prepare checks size, pixel count and format, and downscales wider images to maxWidth
// when maxWidth > 0. Downscaled images are re-encoded as JPEG; GIFs are
// never resized so animations survive.
func Prepare(data []byte, opts Options) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmpty
	}
	if opts.MaxBytes > 0 && int64(len(data)) > opts.MaxBytes {
		return Image{}, ErrTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, ErrUnsupported
	}
	f, ok := formats[format]
	if !ok {
		return Image{}, ErrUnsupported
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return Image{}, ErrTooLarge
	}

	img := Image{
		Data:        data,
		ContentType: f.contentType,
		Ext:         f.ext,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}

	if opts.MaxWidth <= 0 || cfg.Width <= opts.MaxWidth || format == "gif" {
		return img, nil
	}
	return downscale(data, opts.MaxWidth)
}

func downscale(data []byte, width int) (Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, ErrUnsupported
	}

	b := src.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}

	// JPEG has no alpha, so transparent areas land on white.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return Image{}, fmt.Errorf("imagehost: encode resized image: %w", err)
	}

	return Image{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Ext:         ".jpg",
		Width:       width,
		Height:      height,
	}, nil
}
