package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// MaxImageBytes bounds how much of a remote image is read.
const MaxImageBytes = 4 << 20

// Decoded-size bounds. A small compressed file can still declare a huge raster.
const (
	MaxImageSide   = 8192
	MaxImagePixels = 40_000_000
)

var ErrImageTooLarge = errors.New("image dimensions exceed the limit")

// CheckImageSize rejects images whose header declares a raster too large to decode.
func CheckImageSize(cfg image.Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width > MaxImageSide || cfg.Height > MaxImageSide || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

// ImageClient loads uploaded images back from the storage service.
type ImageClient struct {
	httpClient *http.Client
}

func NewImageClient(timeout time.Duration) *ImageClient {
	return &ImageClient{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads and fully decodes the image at url.
func (c *ImageClient) Fetch(ctx context.Context, url string) (image.Image, error) {
	body, err := c.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if err := CheckImageSize(cfg); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Dimensions reads only the image header.
func (c *ImageClient) Dimensions(ctx context.Context, url string) (int, int, error) {
	body, err := c.open(ctx, url)
	if err != nil {
		return 0, 0, err
	}
	defer body.Close()

	cfg, _, err := image.DecodeConfig(io.LimitReader(body, MaxImageBytes))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func (c *ImageClient) open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
