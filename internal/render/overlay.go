// Package render draws detected hand skeletons over captured frames.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/ayusman/mudra/internal/landmark"
)

// Point is a position in canvas pixels.
type Point struct {
	X, Y float64
}

// Canvas is a drawing surface the overlay renders onto.
type Canvas interface {
	Size() (width, height int)
	// DrawImage clears the surface and paints img at the origin.
	DrawImage(img image.Image)
	// StrokePath draws an open polyline through pts.
	StrokePath(pts []Point, c color.Color, width float64)
	// FillCircle draws a filled disc. A radius of zero draws nothing.
	FillCircle(center Point, radius float64, c color.Color)
}

// Annotator is implemented by canvases that can print a text label.
type Annotator interface {
	Annotate(text string)
}

// Snapshotter is implemented by canvases whose contents can be copied out
// as an image.
type Snapshotter interface {
	Snapshot() (image.Image, error)
}

// Finger colors. Joints and bones take the color of the finger they belong
// to; the wrist is white.
var (
	ThumbColor  = color.RGBA{R: 255, A: 255}         // #FF0000
	IndexColor  = color.RGBA{G: 255, A: 255}         // #00FF00
	MiddleColor = color.RGBA{B: 255, A: 255}         // #0000FF
	RingColor   = color.RGBA{R: 255, G: 255, A: 255} // #FFFF00
	PinkyColor  = color.RGBA{R: 255, B: 255, A: 255} // #FF00FF
	WristColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// JointColor returns the marker color of a joint index. Bones use the color
// of their distal joint.
func JointColor(index int) color.RGBA {
	switch landmark.FingerOf(index) {
	case landmark.Thumb:
		return ThumbColor
	case landmark.Index:
		return IndexColor
	case landmark.Middle:
		return MiddleColor
	case landmark.Ring:
		return RingColor
	case landmark.Pinky:
		return PinkyColor
	default:
		return WristColor
	}
}

// Style holds the drawing parameters of the overlay.
type Style struct {
	// BaseRadius is the marker radius of a joint at depth zero.
	BaseRadius   float64
	LineWidth    float64
	OutlineColor color.Color
}

// DefaultStyle returns the standard overlay style: 3px markers, 2px lines
// and a half transparent white palm outline.
func DefaultStyle() Style {
	return Style{
		BaseRadius:   3,
		LineWidth:    2,
		OutlineColor: color.NRGBA{R: 255, G: 255, B: 255, A: 128},
	}
}

// Denormalize maps a normalized landmark to canvas pixels.
func Denormalize(p landmark.Point3D, width, height int) Point {
	return Point{X: p.X * float64(width), Y: p.Y * float64(height)}
}

// MarkerRadius is the marker size of a joint at depth z. Nearer joints
// (smaller z) are drawn larger; the result is never negative.
func MarkerRadius(baseRadius, z float64) float64 {
	return math.Max(0, baseRadius*(1-z))
}

// Overlay paints base onto dst and, when pose is not nil, draws the palm
// outline, the 20 bones and the 21 joint markers on top. It keeps no state
// between calls.
func Overlay(dst Canvas, base image.Image, pose *landmark.Pose, style Style) {
	dst.DrawImage(base)
	if pose == nil {
		return
	}

	w, h := dst.Size()
	at := func(i int) Point { return Denormalize(pose[i], w, h) }

	outline := make([]Point, len(landmark.PalmOutline))
	for i, j := range landmark.PalmOutline {
		outline[i] = at(j)
	}
	dst.StrokePath(outline, style.OutlineColor, style.LineWidth)

	for _, bone := range landmark.Bones {
		dst.StrokePath([]Point{at(bone[0]), at(bone[1])}, JointColor(bone[1]), style.LineWidth)
	}

	for i, p := range pose {
		dst.FillCircle(at(i), MarkerRadius(style.BaseRadius, p.Z), JointColor(i))
	}
}

// Annotate prints text on dst when the canvas supports it.
func Annotate(dst Canvas, text string) {
	if a, ok := dst.(Annotator); ok {
		a.Annotate(text)
	}
}
