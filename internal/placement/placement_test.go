package placement

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		container Rect
		template  Rect
		overlay   Rect
		expected  Placement
	}{
		{
			name:      "template inset in container",
			container: Rect{X: 100, Y: 50, Width: 900, Height: 600},
			template:  Rect{X: 430, Y: 110, Width: 240, Height: 490},
			overlay:   Rect{X: 150, Y: 205, Width: 125, Height: 125},
			expected: Placement{
				Canvas: Size{Width: 240, Height: 490},
				Origin: Point{X: -180, Y: 145},
				Size:   Size{Width: 125, Height: 125},
			},
		},
		{
			name:      "template flush with container",
			container: Rect{X: 0, Y: 0, Width: 240, Height: 490},
			template:  Rect{X: 0, Y: 0, Width: 240, Height: 490},
			overlay:   Rect{X: 20, Y: 30, Width: 100, Height: 50},
			expected: Placement{
				Canvas: Size{Width: 240, Height: 490},
				Origin: Point{X: 20, Y: 30},
				Size:   Size{Width: 100, Height: 50},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compute(tt.container, tt.template, tt.overlay))
		})
	}
}

func TestCompute_IndependentOfPageOffset(t *testing.T) {
	container := Rect{X: 10, Y: 20, Width: 800, Height: 600}
	template := Rect{X: 290, Y: 75, Width: 240, Height: 490}
	overlay := Rect{X: 310, Y: 120, Width: 200, Height: 260}
	want := Compute(container, template, overlay)

	for _, shift := range []Point{{X: 0, Y: 0}, {X: 500, Y: -40}, {X: -12.5, Y: 3000}} {
		c, tp := container, template
		c.X += shift.X
		c.Y += shift.Y
		tp.X += shift.X
		tp.Y += shift.Y
		assert.Equal(t, want, Compute(c, tp, overlay), "shift %+v", shift)
	}
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestComposite(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	p := Placement{
		Canvas: Size{Width: 40, Height: 80},
		Origin: Point{X: 10, Y: 20},
		Size:   Size{Width: 10, Height: 10},
	}

	out, err := Composite(solid(50, 50, red), p)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 80), out.Bounds())

	assert.Equal(t, red, out.RGBAAt(15, 25))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(25, 25))
}

func TestComposite_ClipsOutOfBounds(t *testing.T) {
	blue := color.RGBA{B: 255, A: 255}
	p := Placement{
		Canvas: Size{Width: 20, Height: 20},
		Origin: Point{X: -10, Y: -10},
		Size:   Size{Width: 20, Height: 20},
	}

	out, err := Composite(solid(20, 20, blue), p)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 20), out.Bounds())
	assert.Equal(t, blue, out.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(15, 15))
}

func TestComposite_Errors(t *testing.T) {
	img := solid(4, 4, color.White)

	_, err := Composite(nil, Placement{Canvas: Size{Width: 1, Height: 1}, Size: Size{Width: 1, Height: 1}})
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = Composite(img, Placement{Canvas: Size{Width: 0, Height: 10}, Size: Size{Width: 1, Height: 1}})
	assert.ErrorIs(t, err, ErrEmptyCanvas)

	_, err = Composite(img, Placement{Canvas: Size{Width: 10, Height: 10}, Size: Size{Width: 0.2, Height: 5}})
	assert.ErrorIs(t, err, ErrEmptyOverlay)
}

func TestPlacement_Validate(t *testing.T) {
	ok := Placement{
		Canvas: Size{Width: 240, Height: 496},
		Origin: Point{X: -180, Y: 145},
		Size:   Size{Width: 200, Height: 150},
	}

	tests := []struct {
		name          string
		mutate        func(*Placement)
		expectedError error
	}{
		{name: "within limits", mutate: func(*Placement) {}},
		{name: "largest canvas", mutate: func(p *Placement) { p.Canvas = Size{Width: MaxSide, Height: MaxSide} }},
		{name: "huge canvas", mutate: func(p *Placement) { p.Canvas = Size{Width: 3e9, Height: 3e9} }, expectedError: ErrCanvasTooLarge},
		{name: "canvas just over the limit", mutate: func(p *Placement) { p.Canvas.Height = MaxSide + 1 }, expectedError: ErrCanvasTooLarge},
		{name: "huge overlay", mutate: func(p *Placement) { p.Size.Width = 30000 }, expectedError: ErrCanvasTooLarge},
		{name: "far away origin", mutate: func(p *Placement) { p.Origin.X = -1e12 }, expectedError: ErrCanvasTooLarge},
		{name: "negative canvas", mutate: func(p *Placement) { p.Canvas.Width = -10 }, expectedError: ErrEmptyCanvas},
		{name: "zero overlay", mutate: func(p *Placement) { p.Size.Height = 0 }, expectedError: ErrEmptyOverlay},
		{name: "NaN origin", mutate: func(p *Placement) { p.Origin.Y = math.NaN() }, expectedError: ErrInvalidGeometry},
		{name: "infinite canvas", mutate: func(p *Placement) { p.Canvas.Width = math.Inf(1) }, expectedError: ErrInvalidGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ok
			tt.mutate(&p)
			err := p.Validate()
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComposite_RejectsHugeCanvasWithoutAllocating(t *testing.T) {
	p := Compute(Rect{}, Rect{Width: 3e9, Height: 3e9}, Rect{Width: 10, Height: 10})

	assert.NotPanics(t, func() {
		out, err := Composite(solid(4, 4, color.White), p)
		assert.ErrorIs(t, err, ErrCanvasTooLarge)
		assert.Nil(t, out)
	})
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(solid(3, 2, color.Black))
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Width)
	assert.Equal(t, 2, cfg.Height)
}
