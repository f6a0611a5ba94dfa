package capture

import (
	"errors"
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"
	"golang.org/x/image/draw"
)

// Payload formats accepted by Encode.
const (
	FormatJPEG = ".jpg"
	FormatPNG  = ".png"
)

var (
	// ErrNotReady is returned when a snapshot is attempted before the source
	// knows its dimensions.
	ErrNotReady = errors.New("video source is not ready")
	// ErrEncoding wraps failures converting a frame into a payload.
	ErrEncoding = errors.New("frame encoding failed")
)

// Frame is a still snapshot of the video source. Treat it as read-only.
type Frame struct {
	Image     *image.RGBA
	Timestamp int64 // unix milliseconds
	Width     int
	Height    int
}

// Snapshot copies the current frame of src into a new buffer sized to the
// source dimensions. It fails with ErrNotReady, and allocates nothing, when
// either dimension is zero. Frames whose decoded size differs from the
// reported size are rescaled to match.
func Snapshot(src Source) (*Frame, error) {
	w, h := src.Dimensions()
	if w <= 0 || h <= 0 {
		return nil, ErrNotReady
	}

	img, err := src.Read()
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		draw.Copy(dst, image.Point{}, img, img.Bounds(), draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	}

	return &Frame{
		Image:     dst,
		Timestamp: time.Now().UnixMilli(),
		Width:     w,
		Height:    h,
	}, nil
}

// Encode compresses the frame into a payload of the given format.
func Encode(frame *Frame, format string) ([]byte, error) {
	if frame == nil || frame.Image == nil {
		return nil, fmt.Errorf("%w: empty frame", ErrEncoding)
	}
	if ContentType(format) == "" {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrEncoding, format)
	}

	mat, err := gocv.ImageToMatRGB(frame.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.FileExt(format), mat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	defer buf.Close()

	// The buffer is native memory; copy it out before Close.
	data := append([]byte(nil), buf.GetBytes()...)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrEncoding)
	}
	return data, nil
}

// ContentType returns the MIME type for a payload format, or "" if the
// format is not supported.
func ContentType(format string) string {
	switch format {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	default:
		return ""
	}
}
