// Package placement maps an overlay dragged inside a framing container onto
// the product-template canvas and rasterizes the result.
package placement

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

// MaxSide bounds the width and height of the canvas and the overlay, in pixels.
const MaxSide = 4096

var (
	ErrEmptyCanvas     = errors.New("placement: template has no area")
	ErrEmptyOverlay    = errors.New("placement: overlay has no area")
	ErrNoImage         = errors.New("placement: no source image")
	ErrCanvasTooLarge  = errors.New("placement: canvas or overlay exceeds the size limit")
	ErrInvalidGeometry = errors.New("placement: coordinates must be finite numbers")
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an on-screen bounding rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Placement is the overlay expressed in template-canvas pixels.
type Placement struct {
	Canvas Size  `json:"canvas"`
	Origin Point `json:"origin"`
	Size   Size  `json:"size"`
}

// Compute converts the overlay position, given relative to the container, into
// a drawing origin relative to the template. The overlay is not clamped to the
// template; anything outside the canvas is clipped when drawn.
func Compute(container, template, overlay Rect) Placement {
	offset := Point{
		X: template.X - container.X,
		Y: template.Y - container.Y,
	}
	return Placement{
		Canvas: template.Size(),
		Origin: Point{X: overlay.X - offset.X, Y: overlay.Y - offset.Y},
		Size:   overlay.Size(),
	}
}

// Bounds returns the integer canvas rectangle and the overlay target rectangle.
func (p Placement) Bounds() (canvas, target image.Rectangle) {
	canvas = image.Rect(0, 0, round(p.Canvas.Width), round(p.Canvas.Height))
	target = image.Rect(
		round(p.Origin.X),
		round(p.Origin.Y),
		round(p.Origin.X+p.Size.Width),
		round(p.Origin.Y+p.Size.Height),
	)
	return canvas, target
}

// Validate rejects placements that cannot be rasterized within the size limit.
// The origin may lie outside the canvas, but no further away than MaxSide.
func (p Placement) Validate() error {
	for _, v := range []float64{p.Canvas.Width, p.Canvas.Height, p.Origin.X, p.Origin.Y, p.Size.Width, p.Size.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidGeometry
		}
	}
	if p.Canvas.Width <= 0 || p.Canvas.Height <= 0 {
		return ErrEmptyCanvas
	}
	if p.Size.Width <= 0 || p.Size.Height <= 0 {
		return ErrEmptyOverlay
	}
	if p.Canvas.Width > MaxSide || p.Canvas.Height > MaxSide || p.Size.Width > MaxSide || p.Size.Height > MaxSide {
		return ErrCanvasTooLarge
	}
	if math.Abs(p.Origin.X) > 2*MaxSide || math.Abs(p.Origin.Y) > 2*MaxSide {
		return ErrCanvasTooLarge
	}
	return nil
}

// Composite draws src, scaled to the overlay size, onto a transparent canvas
// the size of the template.
func Composite(src image.Image, p Placement) (*image.RGBA, error) {
	if src == nil {
		return nil, ErrNoImage
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	canvasRect, target := p.Bounds()
	if canvasRect.Empty() {
		return nil, ErrEmptyCanvas
	}
	if target.Empty() {
		return nil, ErrEmptyOverlay
	}

	canvas := image.NewRGBA(canvasRect)
	xdraw.CatmullRom.Scale(canvas, target, src, src.Bounds(), xdraw.Over, nil)
	return canvas, nil
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func round(v float64) int {
	return int(math.Round(v))
}
