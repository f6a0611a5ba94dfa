package render

import (
	"image"
	"image/color"
	"sync"
)

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpImage OpKind = iota
	OpPath
	OpCircle
	OpText
)

// Op is one drawing call captured by a RecordingCanvas.
type Op struct {
	Kind   OpKind
	Points []Point
	Center Point
	Radius float64
	Width  float64
	Color  color.Color
	Text   string
}

// RecordingCanvas is a test Canvas that records every drawing call instead
// of painting pixels.
type RecordingCanvas struct {
	mu     sync.Mutex
	width  int
	height int
	ops    []Op
}

var (
	_ Canvas    = (*RecordingCanvas)(nil)
	_ Annotator = (*RecordingCanvas)(nil)
)

// NewRecordingCanvas creates a recording canvas reporting the given size.
func NewRecordingCanvas(width, height int) *RecordingCanvas {
	return &RecordingCanvas{width: width, height: height}
}

func (c *RecordingCanvas) Size() (int, int) { return c.width, c.height }

func (c *RecordingCanvas) DrawImage(image.Image) {
	c.record(Op{Kind: OpImage})
}

func (c *RecordingCanvas) StrokePath(pts []Point, col color.Color, width float64) {
	c.record(Op{Kind: OpPath, Points: append([]Point(nil), pts...), Color: col, Width: width})
}

func (c *RecordingCanvas) FillCircle(center Point, radius float64, col color.Color) {
	c.record(Op{Kind: OpCircle, Center: center, Radius: radius, Color: col})
}

func (c *RecordingCanvas) Annotate(text string) {
	c.record(Op{Kind: OpText, Text: text})
}

// Ops returns a copy of the recorded calls.
func (c *RecordingCanvas) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Op(nil), c.ops...)
}

// Count returns the number of recorded calls of kind k.
func (c *RecordingCanvas) Count(k OpKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, op := range c.ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Reset discards the recorded calls.
func (c *RecordingCanvas) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = nil
}

func (c *RecordingCanvas) record(op Op) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, op)
}
