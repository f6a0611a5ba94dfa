package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// circleKappa places cubic control points for a quarter circle.
const circleKappa = 0.5522847498

// ImageCanvas is an in-memory Canvas backed by an RGBA image. Shapes are
// anti-aliased and alpha blended.
type ImageCanvas struct {
	img *image.RGBA
	ras *vector.Rasterizer
}

var (
	_ Canvas      = (*ImageCanvas)(nil)
	_ Annotator   = (*ImageCanvas)(nil)
	_ Snapshotter = (*ImageCanvas)(nil)
)

// NewImageCanvas creates a transparent canvas of the given size.
func NewImageCanvas(width, height int) *ImageCanvas {
	return &ImageCanvas{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		ras: vector.NewRasterizer(width, height),
	}
}

// Image returns the canvas pixels. The image is reused by later draws.
func (c *ImageCanvas) Image() *image.RGBA {
	return c.img
}

// Snapshot returns a copy of the canvas pixels.
func (c *ImageCanvas) Snapshot() (image.Image, error) {
	dst := image.NewRGBA(c.img.Bounds())
	copy(dst.Pix, c.img.Pix)
	return dst, nil
}

func (c *ImageCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *ImageCanvas) DrawImage(img image.Image) {
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	if img == nil {
		return
	}
	draw.Draw(c.img, c.img.Bounds(), img, img.Bounds().Min, draw.Over)
}

// StrokePath fills one quad per segment in a single pass, so overlapping
// joints of a translucent path are blended once.
func (c *ImageCanvas) StrokePath(pts []Point, col color.Color, width float64) {
	if len(pts) < 2 || width <= 0 {
		return
	}
	c.begin()
	half := width / 2
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half
		c.ras.MoveTo(float32(a.X+nx), float32(a.Y+ny))
		c.ras.LineTo(float32(b.X+nx), float32(b.Y+ny))
		c.ras.LineTo(float32(b.X-nx), float32(b.Y-ny))
		c.ras.LineTo(float32(a.X-nx), float32(a.Y-ny))
		c.ras.ClosePath()
	}
	c.flush(col)
}

func (c *ImageCanvas) FillCircle(center Point, radius float64, col color.Color) {
	if radius <= 0 {
		return
	}
	c.begin()
	x, y, r := center.X, center.Y, radius
	k := r * circleKappa
	c.ras.MoveTo(float32(x+r), float32(y))
	c.ras.CubeTo(float32(x+r), float32(y+k), float32(x+k), float32(y+r), float32(x), float32(y+r))
	c.ras.CubeTo(float32(x-k), float32(y+r), float32(x-r), float32(y+k), float32(x-r), float32(y))
	c.ras.CubeTo(float32(x-r), float32(y-k), float32(x-k), float32(y-r), float32(x), float32(y-r))
	c.ras.CubeTo(float32(x+k), float32(y-r), float32(x+r), float32(y-k), float32(x+r), float32(y))
	c.ras.ClosePath()
	c.flush(col)
}

// Annotate prints text in the top left corner.
func (c *ImageCanvas) Annotate(text string) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(IndexColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 20),
	}
	d.DrawString(text)
}

func (c *ImageCanvas) begin() {
	w, h := c.Size()
	c.ras.Reset(w, h)
	c.ras.DrawOp = draw.Over
}

func (c *ImageCanvas) flush(col color.Color) {
	c.ras.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}
