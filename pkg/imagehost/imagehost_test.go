package imagehost

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/Alijeyrad/vlog_backend/config"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func gifBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPrepare(t *testing.T) {
	small := pngBytes(t, 40, 20)

	tests := []struct {
		name     string
		data     []byte
		opts     Options
		wantErr  error
		wantType string
		wantW    int
	}{
		{name: "empty", data: nil, wantErr: ErrEmpty},
		{name: "too large", data: small, opts: Options{MaxBytes: 10}, wantErr: ErrTooLarge},
		{name: "not an image", data: []byte("%PDF-1.4 hello"), wantErr: ErrUnsupported},
		{name: "png kept", data: small, opts: Options{MaxBytes: 1 << 20}, wantType: "image/png", wantW: 40},
		{name: "png under max width", data: small, opts: Options{MaxWidth: 100}, wantType: "image/png", wantW: 40},
		{name: "png downscaled", data: small, opts: Options{MaxWidth: 10}, wantType: "image/jpeg", wantW: 10},
		{name: "gif never resized", data: gifBytes(t, 40, 20), opts: Options{MaxWidth: 10}, wantType: "image/gif", wantW: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Prepare(tt.data, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Prepare() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Prepare() error = %v", err)
			}
			if img.ContentType != tt.wantType || img.Width != tt.wantW {
				t.Errorf("Prepare() = %s %dpx, want %s %dpx", img.ContentType, img.Width, tt.wantType, tt.wantW)
			}
		})
	}
}

func TestPrepare_DownscaleKeepsAspect(t *testing.T) {
	img, err := Prepare(pngBytes(t, 200, 100), Options{MaxWidth: 50})
	if err != nil {
		t.Fatal(err)
	}
	if img.Height != 25 || img.Ext != ".jpg" {
		t.Errorf("got %dx%d %s, want 50x25 .jpg", img.Width, img.Height, img.Ext)
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(img.Data)); err != nil || format != "jpeg" {
		t.Errorf("resized data decodes as %q, err %v", format, err)
	}
}

// oversizedPNG is a valid small PNG whose header claims w x h pixels.
func oversizedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := pngBytes(t, 4, 4)
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestPrepare_RejectsHugeDimensions(t *testing.T) {
	data := oversizedPNG(t, 20000, 20000)
	if _, err := Prepare(data, Options{MaxBytes: 1 << 20, MaxWidth: 1600}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Prepare() error = %v, want %v", err, ErrTooLarge)
	}
}

func TestPrepare_DownscaleFlattensTransparencyOnWhite(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 40, 20))); err != nil {
		t.Fatal(err)
	}

	img, err := Prepare(buf.Bytes(), Options{MaxWidth: 20})
	if err != nil {
		t.Fatal(err)
	}
	out, err := jpeg.Decode(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := out.At(10, 5).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent pixel became rgb(%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestNew_MissingSecretsDisables(t *testing.T) {
	tests := []struct {
		name  string
		media config.MediaConfig
	}{
		{"no cloudinary secrets", config.MediaConfig{Provider: ProviderCloudinary}},
		{"only cloud name", config.MediaConfig{Provider: ProviderCloudinary,
			Cloudinary: config.CloudinaryConfig{CloudName: "demo"}}},
		{"missing api secret", config.MediaConfig{Provider: ProviderCloudinary,
			Cloudinary: config.CloudinaryConfig{CloudName: "demo", APIKey: "k"}}},
		{"no s3 settings", config.MediaConfig{Provider: ProviderS3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up, err := New(context.Background(), tt.media, config.S3Config{})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if _, ok := up.(Disabled); !ok {
				t.Fatalf("New() = %T, want Disabled", up)
			}
			if _, err := up.Upload(context.Background(), Image{Data: []byte{1}}); !errors.Is(err, ErrNotConfigured) {
				t.Errorf("Upload() error = %v, want ErrNotConfigured", err)
			}
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(context.Background(), config.MediaConfig{Provider: "imgur"}, config.S3Config{}); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestNew_Cloudinary(t *testing.T) {
	up, err := New(context.Background(), config.MediaConfig{
		Provider:   ProviderCloudinary,
		Cloudinary: config.CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret"},
	}, config.S3Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if up.Provider() != ProviderCloudinary {
		t.Errorf("Provider() = %q", up.Provider())
	}
}

type fakeS3 struct {
	key, contentType string
	size             int64
}

func (f *fakeS3) PutPublic(_ context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	f.key, f.contentType, f.size = key, contentType, size
	_, _ = io.Copy(io.Discard, body)
	return "https://cdn.example.com/" + key, nil
}

func TestS3_Upload(t *testing.T) {
	fake := &fakeS3{}
	up := NewS3(fake, "vlogs")

	url, err := up.Upload(context.Background(), Image{Data: []byte("abc"), ContentType: "image/png", Ext: ".png"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(fake.key, "vlogs/") || !strings.HasSuffix(fake.key, ".png") {
		t.Errorf("key = %q", fake.key)
	}
	if fake.size != 3 || fake.contentType != "image/png" {
		t.Errorf("size %d type %q", fake.size, fake.contentType)
	}
	if url != "https://cdn.example.com/"+fake.key {
		t.Errorf("url = %q", url)
	}
}

func TestHostError(t *testing.T) {
	var err error = &HostError{Provider: ProviderCloudinary, Message: "Invalid image file"}
	var he *HostError
	if !errors.As(err, &he) || he.Message != "Invalid image file" {
		t.Errorf("errors.As = %+v", he)
	}
}
