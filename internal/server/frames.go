package server

import (
	"image"
	"sync"

	"golang.org/x/image/draw"

	"github.com/ayusman/mudra/internal/capture"
)

// FrameBuffer holds the most recently rendered frame. The JPEG encoding is
// produced on first request and cached until the next frame arrives.
type FrameBuffer struct {
	mu      sync.Mutex
	img     *image.RGBA
	jpeg    []byte
	seq     uint64
	updated chan struct{}
}

// NewFrameBuffer creates an empty frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{updated: make(chan struct{})}
}

// Set replaces the current frame and wakes waiting readers.
func (b *FrameBuffer) Set(img image.Image) {
	if img == nil {
		return
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Copy(rgba, rgba.Bounds().Min, img, img.Bounds(), draw.Src, nil)
	}

	b.mu.Lock()
	b.img = rgba
	b.jpeg = nil
	b.seq++
	close(b.updated)
	b.updated = make(chan struct{})
	b.mu.Unlock()
}

// Next returns a channel that is closed when a frame newer than the current
// one is set.
func (b *FrameBuffer) Next() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.updated
}

// JPEG returns the current frame encoded as JPEG with its sequence number.
// It returns nil before the first frame.
func (b *FrameBuffer) JPEG() ([]byte, uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.img == nil {
		return nil, 0, nil
	}
	if b.jpeg == nil {
		data, err := capture.Encode(&capture.Frame{Image: b.img}, capture.FormatJPEG)
		if err != nil {
			return nil, b.seq, err
		}
		b.jpeg = data
	}
	return b.jpeg, b.seq, nil
}

// Seq returns the sequence number of the current frame; zero means empty.
func (b *FrameBuffer) Seq() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}
