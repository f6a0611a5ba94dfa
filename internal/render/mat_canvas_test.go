package render

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/landmark"
)

func newTestMat(t *testing.T, w, h int) *gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })
	return &mat
}

func matPixel(t *testing.T, c *MatCanvas, x, y int) color.RGBA {
	t.Helper()
	img, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func TestMatCanvas(t *testing.T) {
	t.Run("size follows the mat", func(t *testing.T) {
		c := NewMatCanvas(newTestMat(t, 32, 24))
		if w, h := c.Size(); w != 32 || h != 24 {
			t.Errorf("Size() = %dx%d, want 32x24", w, h)
		}
	})

	t.Run("draw image keeps channel order", func(t *testing.T) {
		c := NewMatCanvas(newTestMat(t, 16, 16))
		c.DrawImage(solidImage(16, 16, color.RGBA{R: 220, G: 10, B: 30, A: 255}))

		got := matPixel(t, c, 8, 8)
		if got.R != 220 || got.G != 10 || got.B != 30 {
			t.Errorf("pixel = %v, want R220 G10 B30", got)
		}
	})

	t.Run("draw image rescales", func(t *testing.T) {
		c := NewMatCanvas(newTestMat(t, 16, 16))
		c.DrawImage(solidImage(4, 4, color.RGBA{G: 200, A: 255}))

		if got := matPixel(t, c, 15, 15); got.G != 200 {
			t.Errorf("corner pixel = %v, want green", got)
		}
	})

	t.Run("filled circle", func(t *testing.T) {
		c := NewMatCanvas(newTestMat(t, 20, 20))
		c.DrawImage(nil)
		c.FillCircle(Point{X: 10, Y: 10}, 4, ThumbColor)

		if got := matPixel(t, c, 10, 10); got.R != 255 || got.G != 0 || got.B != 0 {
			t.Errorf("center pixel = %v, want red", got)
		}
		if got := matPixel(t, c, 1, 1); got.R != 0 {
			t.Errorf("corner pixel = %v, want black", got)
		}
	})

	t.Run("translucent stroke blends", func(t *testing.T) {
		c := NewMatCanvas(newTestMat(t, 20, 20))
		c.DrawImage(nil)
		c.StrokePath([]Point{{X: 0, Y: 10}, {X: 19, Y: 10}}, DefaultStyle().OutlineColor, 2)

		if got := matPixel(t, c, 10, 10); got.R < 100 || got.R > 156 {
			t.Errorf("blended pixel = %v, want mid grey", got)
		}
	})

	t.Run("overlay marks the wrist", func(t *testing.T) {
		const w, h = 320, 240
		pose := landmark.ThumbsUpPose()
		c := NewMatCanvas(newTestMat(t, w, h))
		Overlay(c, image.NewRGBA(image.Rect(0, 0, w, h)), &pose, DefaultStyle())

		p := toPixel(Denormalize(pose[landmark.Wrist], w, h))
		if got := matPixel(t, c, p.X, p.Y); got.R != 255 || got.G != 255 || got.B != 255 {
			t.Errorf("wrist pixel = %v, want white", got)
		}
	})
}
