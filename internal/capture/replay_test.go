package capture

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestReplaySource(t *testing.T) {
	a := solidFrame(4, 4, color.RGBA{R: 1, A: 255})
	b := solidFrame(6, 2, color.RGBA{R: 2, A: 255})

	t.Run("requires open", func(t *testing.T) {
		src := NewReplaySource([]image.Image{a}, false)
		if _, err := src.Read(); !errors.Is(err, ErrCameraNotOpen) {
			t.Errorf("Read() error = %v, want ErrCameraNotOpen", err)
		}
	})

	t.Run("plays frames in order then stops", func(t *testing.T) {
		src := NewReplaySource([]image.Image{a, b}, false)
		src.Open()

		if w, h := src.Dimensions(); w != 4 || h != 4 {
			t.Errorf("Dimensions() = %dx%d, want 4x4", w, h)
		}
		if img, _ := src.Read(); img != a {
			t.Error("expected first frame")
		}
		if w, h := src.Dimensions(); w != 6 || h != 2 {
			t.Errorf("Dimensions() = %dx%d, want 6x2", w, h)
		}
		if img, _ := src.Read(); img != b {
			t.Error("expected second frame")
		}
		if _, err := src.Read(); !errors.Is(err, ErrNoFrames) {
			t.Errorf("Read() error = %v, want ErrNoFrames", err)
		}
		if w, h := src.Dimensions(); w != 0 || h != 0 {
			t.Errorf("exhausted source should report 0x0, got %dx%d", w, h)
		}
	})

	t.Run("loops", func(t *testing.T) {
		src := NewReplaySource([]image.Image{a}, true)
		src.Open()

		for i := 0; i < 3; i++ {
			if img, err := src.Read(); err != nil || img != a {
				t.Fatalf("read %d: img=%v err=%v", i, img, err)
			}
		}
	})

	t.Run("open error", func(t *testing.T) {
		denied := errors.New("denied")
		src := NewReplaySource(nil, false)
		src.OpenErr = denied

		if err := src.Open(); !errors.Is(err, denied) {
			t.Errorf("Open() error = %v, want %v", err, denied)
		}
		if src.IsOpen() {
			t.Error("source should stay closed after a refused open")
		}
	})

	t.Run("reset", func(t *testing.T) {
		src := NewReplaySource([]image.Image{a, b}, false)
		src.Open()
		src.Read()
		src.Reset()

		if img, _ := src.Read(); img != a {
			t.Error("expected first frame after Reset")
		}
	})
}
