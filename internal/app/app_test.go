package app

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/stream"
	"github.com/ayusman/mudra/internal/transport"
	"github.com/ayusman/mudra/internal/view"
)

func testFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+3] = 90, 160, 255
	}
	return img
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Camera.FPS = 200
	cfg.Store.Path = filepath.Join(t.TempDir(), "samples.db")
	return cfg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestNew(t *testing.T) {
	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.Mode = "push"

		if _, err := New(context.Background(), cfg, Options{}); err == nil {
			t.Error("expected error for invalid mode")
		}
	})

	t.Run("builds backend for mode", func(t *testing.T) {
		tests := []struct {
			mode string
			want transport.Mode
		}{
			{"sync", transport.ModeSync},
			{"async", transport.ModeAsync},
		}
		for _, tt := range tests {
			cfg := config.Default()
			cfg.Server.Mode = tt.mode

			a, err := New(context.Background(), cfg, Options{Source: capture.NewReplaySource(nil, false)})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := a.backend.Mode(); got != tt.want {
				t.Errorf("mode %s: backend mode = %s", tt.mode, got)
			}
			if a.Store() != nil || a.Server() != nil {
				t.Errorf("mode %s: store and server should be disabled by default", tt.mode)
			}
		}
	})

	t.Run("async client carries the session id", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.Mode = "async"

		a, err := New(context.Background(), cfg, Options{Source: capture.NewReplaySource(nil, false)})
		if err != nil {
			t.Fatal(err)
		}
		client, ok := a.backend.(*transport.AsyncClient)
		if !ok {
			t.Fatalf("backend is %T", a.backend)
		}
		if client.SessionID() != a.SessionID() {
			t.Errorf("client session = %s, app session = %s", client.SessionID(), a.SessionID())
		}
	})
}

func TestApp_RunRecordsSamples(t *testing.T) {
	cfg := testConfig(t)
	cfg.Preview.Enabled = true
	cfg.Preview.Addr = "127.0.0.1:0"

	pose := landmark.ThumbsUpPose()
	backend := transport.NewMockBackend(transport.ModeSync)
	backend.SetResult(&landmark.Result{Gesture: "Thumbs Up", Pose: &pose})
	binder := view.NewMockBinder()

	a, err := New(context.Background(), cfg, Options{
		Source:  capture.NewReplaySource([]image.Image{testFrame()}, true),
		Backend: backend,
		View:    binder,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	waitFor(t, "three submits", func() bool { return backend.Submits() >= 3 })
	cancel()

	if err := <-errCh; err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := binder.Status(); got != "Detected gesture: Thumbs Up" {
		t.Errorf("status = %q", got)
	}
	if a.Server().Frames().Seq() == 0 {
		t.Error("preview server received no frames")
	}

	counts, err := a.Store().Samples().CountByGesture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if counts["Thumbs Up"] == 0 {
		t.Error("no samples recorded")
	}

	sess, err := a.Store().Sessions().Get(context.Background(), a.SessionID().String())
	if err != nil {
		t.Fatalf("session not registered: %v", err)
	}
	if sess.Mode != "sync" {
		t.Errorf("session mode = %q, want sync", sess.Mode)
	}
}

func TestApp_RecordLabel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.RecordLabel = "peace"

	pose := landmark.OpenPalmPose()
	backend := transport.NewMockBackend(transport.ModeSync)
	backend.SetResult(&landmark.Result{Gesture: "Open Palm", Pose: &pose})

	a, err := New(context.Background(), cfg, Options{
		Source:  capture.NewReplaySource([]image.Image{testFrame()}, true),
		Backend: backend,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if err := a.StartStream(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "a recorded sample", func() bool {
		samples, _ := a.Store().Samples().ListByGesture(context.Background(), "peace")
		return len(samples) > 0
	})
	a.StopStream()

	samples, _ := a.Store().Samples().ListByGesture(context.Background(), "Open Palm")
	if len(samples) != 0 {
		t.Errorf("service label recorded %d times despite override", len(samples))
	}
}

func TestApp_PermissionDenied(t *testing.T) {
	src := capture.NewReplaySource([]image.Image{testFrame()}, true)
	src.OpenErr = errors.New("device busy")

	a, err := New(context.Background(), testConfig(t), Options{
		Source:  src,
		Backend: transport.NewMockBackend(transport.ModeSync),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	err = a.Run(context.Background())
	if !errors.Is(err, stream.ErrPermissionDenied) {
		t.Errorf("Run() error = %v, want ErrPermissionDenied", err)
	}
	if a.Streaming() {
		t.Error("app reports streaming after refused camera")
	}
}

func TestApp_RestartAfterStop(t *testing.T) {
	backend := transport.NewMockBackend(transport.ModeSync)
	backend.SetResult(&landmark.Result{Gesture: landmark.NoHandDetected})
	cfg := config.Default()
	cfg.Camera.FPS = 200

	a, err := New(context.Background(), cfg, Options{
		Source:  capture.NewReplaySource([]image.Image{testFrame()}, true),
		Backend: backend,
	})
	if err != nil {
		t.Fatal(err)
	}

	for run := 1; run <= 2; run++ {
		before := backend.Submits()
		if err := a.StartStream(context.Background()); err != nil {
			t.Fatalf("run %d: StartStream() error = %v", run, err)
		}
		if !a.Streaming() {
			t.Fatalf("run %d: not streaming", run)
		}
		waitFor(t, "a submit", func() bool { return backend.Submits() > before })
		a.StopStream()
		if a.Streaming() {
			t.Fatalf("run %d: still streaming after stop", run)
		}
	}

	// A second start while streaming is a no-op.
	if err := a.StartStream(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := a.StartStream(context.Background()); err != nil {
		t.Errorf("repeated StartStream() error = %v", err)
	}
	a.StopStream()
}

func TestApp_TrayToggle(t *testing.T) {
	backend := transport.NewMockBackend(transport.ModeSync)
	cfg := config.Default()
	cfg.Camera.FPS = 200
	tray := view.NewTray()

	a, err := New(context.Background(), cfg, Options{
		Source:  capture.NewReplaySource([]image.Image{testFrame()}, true),
		Backend: backend,
		Tray:    tray,
	})
	if err != nil {
		t.Fatal(err)
	}

	a.handleToggle(true)
	waitFor(t, "tray streaming", tray.IsStreaming)
	if !a.Streaming() {
		t.Error("app not streaming after toggle on")
	}

	a.handleToggle(false)
	if a.Streaming() || tray.IsStreaming() {
		t.Error("still streaming after toggle off")
	}
}
