package render

import (
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// MatCanvas draws onto a caller owned gocv Mat in BGR order.
type MatCanvas struct {
	mat *gocv.Mat
}

var (
	_ Canvas      = (*MatCanvas)(nil)
	_ Annotator   = (*MatCanvas)(nil)
	_ Snapshotter = (*MatCanvas)(nil)
)

// NewMatCanvas wraps mat. The Mat must already be allocated with the target
// frame size; the caller keeps ownership and closes it.
func NewMatCanvas(mat *gocv.Mat) *MatCanvas {
	return &MatCanvas{mat: mat}
}

// Snapshot converts the Mat contents to an image.
func (c *MatCanvas) Snapshot() (image.Image, error) {
	return c.mat.ToImage()
}

func (c *MatCanvas) Size() (int, int) {
	return c.mat.Cols(), c.mat.Rows()
}

func (c *MatCanvas) DrawImage(img image.Image) {
	if img == nil {
		c.mat.SetTo(gocv.NewScalar(0, 0, 0, 0))
		return
	}
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return
	}
	defer src.Close()

	w, h := c.Size()
	if src.Cols() != w || src.Rows() != h {
		gocv.Resize(src, c.mat, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)
		return
	}
	src.CopyTo(c.mat)
}

// StrokePath draws the polyline. OpenCV ignores alpha, so translucent colors
// are drawn on a copy and blended back.
func (c *MatCanvas) StrokePath(pts []Point, col color.Color, width float64) {
	if len(pts) < 2 {
		return
	}
	poly := make([]image.Point, len(pts))
	for i, p := range pts {
		poly[i] = toPixel(p)
	}
	vec := gocv.NewPointsVectorFromPoints([][]image.Point{poly})
	defer vec.Close()

	rgba, alpha := split(col)
	thickness := int(math.Max(1, math.Round(width)))
	c.blend(alpha, func(dst *gocv.Mat) {
		gocv.Polylines(dst, vec, false, rgba, thickness)
	})
}

func (c *MatCanvas) FillCircle(center Point, radius float64, col color.Color) {
	r := int(math.Round(radius))
	if r <= 0 {
		return
	}
	rgba, alpha := split(col)
	c.blend(alpha, func(dst *gocv.Mat) {
		gocv.Circle(dst, toPixel(center), r, rgba, -1)
	})
}

// Annotate prints text in the top left corner.
func (c *MatCanvas) Annotate(text string) {
	gocv.PutTextWithParams(c.mat, text, image.Pt(10, 30), gocv.FontHersheySimplex,
		1, IndexColor, 2, gocv.LineAA, false)
}

func (c *MatCanvas) blend(alpha float64, paint func(dst *gocv.Mat)) {
	if alpha >= 1 {
		paint(c.mat)
		return
	}
	layer := c.mat.Clone()
	defer layer.Close()
	paint(&layer)
	gocv.AddWeighted(layer, alpha, *c.mat, 1-alpha, 0, c.mat)
}

func toPixel(p Point) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// split returns the opaque color and the alpha in [0, 1].
func split(col color.Color) (color.RGBA, float64) {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: 255}, float64(n.A) / 255
}
