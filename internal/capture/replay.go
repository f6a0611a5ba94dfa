package capture

import (
	"errors"
	"image"
	"sync"
)

// ErrNoFrames is returned by a ReplaySource that has nothing left to play.
var ErrNoFrames = errors.New("no more frames")

// ReplaySource plays back in-memory frames. It stands in for a camera in
// tests and in offline runs over recorded images.
type ReplaySource struct {
	frames  []image.Image
	index   int
	loop    bool
	mu      sync.Mutex
	running bool

	// OpenErr, when set, is returned from Open to simulate a refused device.
	OpenErr error
	// Width and Height override the reported dimensions when non-zero.
	Width, Height int
}

var _ Source = (*ReplaySource)(nil)

// NewReplaySource creates a source over frames. With loop set, playback
// restarts at the first frame after the last one.
func NewReplaySource(frames []image.Image, loop bool) *ReplaySource {
	return &ReplaySource{
		frames: frames,
		loop:   loop,
	}
}

func (s *ReplaySource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.OpenErr != nil {
		return s.OpenErr
	}
	s.running = true
	s.index = 0
	return nil
}

func (s *ReplaySource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

// Dimensions reports the override size if set, otherwise the size of the
// next frame. A closed or exhausted source reports 0x0.
func (s *ReplaySource) Dimensions() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return 0, 0
	}
	if s.Width > 0 || s.Height > 0 {
		return s.Width, s.Height
	}
	img := s.peek()
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ReplaySource) Read() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrCameraNotOpen
	}

	img := s.peek()
	if img == nil {
		return nil, ErrNoFrames
	}
	s.index++

	return img, nil
}

func (s *ReplaySource) peek() image.Image {
	if len(s.frames) == 0 {
		return nil
	}
	if s.index >= len(s.frames) {
		if !s.loop {
			return nil
		}
		s.index = 0
	}
	return s.frames[s.index]
}

func (s *ReplaySource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Reset restarts playback from the beginning
func (s *ReplaySource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}
