package infra

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngServer(t *testing.T, w, h int) *httptest.Server {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/photo.png" {
			http.NotFound(rw, r)
			return
		}
		rw.Header().Set("Content-Type", "image/png")
		_ = png.Encode(rw, img)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestImageClient_Dimensions(t *testing.T) {
	srv := pngServer(t, 64, 32)
	c := NewImageClient(time.Second)

	w, h, err := c.Dimensions(context.Background(), srv.URL+"/photo.png")
	require.NoError(t, err)
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
}

func TestImageClient_Fetch(t *testing.T) {
	srv := pngServer(t, 8, 4)
	c := NewImageClient(time.Second)

	img, err := c.Fetch(context.Background(), srv.URL+"/photo.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())

	_, err = c.Fetch(context.Background(), srv.URL+"/missing.png")
	assert.ErrorContains(t, err, "status 404")
}

// pngHeader is a PNG that stops after IHDR: enough for DecodeConfig to
// report w x h without any pixel data.
func pngHeader(w, h uint32) []byte {
	var ihdr bytes.Buffer
	ihdr.WriteString("IHDR")
	_ = binary.Write(&ihdr, binary.BigEndian, w)
	_ = binary.Write(&ihdr, binary.BigEndian, h)
	ihdr.Write([]byte{8, 6, 0, 0, 0})

	var out bytes.Buffer
	out.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&out, binary.BigEndian, uint32(ihdr.Len()-4))
	out.Write(ihdr.Bytes())
	_ = binary.Write(&out, binary.BigEndian, crc32.ChecksumIEEE(ihdr.Bytes()))
	return out.Bytes()
}

func TestImageClient_FetchRejectsHugeRaster(t *testing.T) {
	header := pngHeader(20000, 20000)
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "image/png")
		_, _ = rw.Write(header)
	}))
	defer srv.Close()

	w, h, err := NewImageClient(time.Second).Dimensions(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 20000, w)
	assert.Equal(t, 20000, h)

	img, err := NewImageClient(time.Second).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.Nil(t, img)
}

func TestCheckImageSize(t *testing.T) {
	tests := []struct {
		name          string
		cfg           image.Config
		expectedError error
	}{
		{name: "photo", cfg: image.Config{Width: 6000, Height: 4000}},
		{name: "longest allowed side", cfg: image.Config{Width: MaxImageSide, Height: 4000}},
		{name: "too wide", cfg: image.Config{Width: MaxImageSide + 1, Height: 10}, expectedError: ErrImageTooLarge},
		{name: "too many pixels", cfg: image.Config{Width: 8000, Height: 8000}, expectedError: ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckImageSize(tt.cfg)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.Error(t, CheckImageSize(image.Config{}))
}
