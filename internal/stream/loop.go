// Package stream runs the capture, transmit and render loop.
package stream

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/render"
	"github.com/ayusman/mudra/internal/transport"
	"github.com/ayusman/mudra/internal/view"
)

// Status texts shown through the view.
const (
	StatusConnected        = "Connected to the camera."
	StatusPermissionDenied = "Camera access is denied. Check the camera device and permissions."
	StatusWaiting          = "Waiting for result..."
	StatusDetectedPrefix   = "Detected gesture: "
)

// Error report contexts.
const (
	ErrContextEncoding     = "Frame encoding error"
	ErrContextTransmission = "Frame transmission error"
	ErrContextRead         = "Camera read error"
)

var (
	// ErrPermissionDenied is returned by Start when the source cannot be opened.
	ErrPermissionDenied = errors.New("camera permission denied")
	// ErrAlreadyStarted is returned by Start on a loop that has left Idle.
	ErrAlreadyStarted = errors.New("stream already started")
)

// Update is what a Publisher receives after each render.
type Update struct {
	// Image is a copy of the rendered canvas, or nil when the canvas cannot
	// be copied.
	Image     image.Image
	Result    *landmark.Result
	Status    string
	Timestamp time.Time
}

// Publisher receives every rendered frame.
type Publisher interface {
	Publish(u Update)
}

// Recorder receives results that carry a hand pose.
type Recorder interface {
	Record(ctx context.Context, result *landmark.Result, capturedAt time.Time) error
}

// Config holds the collaborators of a Loop.
type Config struct {
	Source  capture.Source
	Backend transport.Backend
	View    view.Binder
	// Canvas receives the overlay. When nil, an image canvas sized to the
	// first frame is created.
	Canvas render.Canvas
	// FPS is the tick rate. Defaults to 25.
	FPS int
	// Format is the payload format. Defaults to JPEG.
	Format string
	Style  render.Style
	// ShowLabel prints the gesture label on the canvas.
	ShowLabel bool

	Recorder  Recorder
	Publisher Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Loop drives one streaming session. Start may be retried after a refused
// device; once streaming, a loop runs until Stop and cannot be restarted.
type Loop struct {
	cfg      Config
	logger   *slog.Logger
	interval time.Duration

	state    atomic.Int32
	stop     atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// canvas is only touched by the loop goroutine.
	canvas render.Canvas
}

// New creates a Loop in the Idle state.
func New(cfg Config) *Loop {
	if cfg.FPS <= 0 {
		cfg.FPS = capture.DefaultFPS
	}
	if cfg.Format == "" {
		cfg.Format = capture.FormatJPEG
	}
	if cfg.Style == (render.Style{}) {
		cfg.Style = render.DefaultStyle()
	}
	if cfg.View == nil {
		cfg.View = view.NewLogBinder(cfg.Logger)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Loop{
		cfg:      cfg,
		logger:   logger.With("component", "stream"),
		interval: time.Second / time.Duration(cfg.FPS),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
		canvas:   cfg.Canvas,
	}
}

// State returns the current state. It is safe from any goroutine.
func (l *Loop) State() State {
	return State(l.state.Load())
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
	l.cfg.Metrics.SetState(int(s))
}

// Start opens the source and, on success, runs ticks on a new goroutine until
// Stop is called, ctx is cancelled, or the source fails. A refused source
// returns the loop to Idle and yields an error wrapping ErrPermissionDenied.
func (l *Loop) Start(ctx context.Context) error {
	if !l.state.CompareAndSwap(int32(Idle), int32(AwaitingPermission)) {
		return ErrAlreadyStarted
	}
	l.cfg.Metrics.SetState(int(AwaitingPermission))

	v := l.cfg.View
	v.ShowLoading()
	v.HidePermissionPrompt()

	if err := l.cfg.Source.Open(); err != nil {
		l.setState(Idle)
		v.HideLoading()
		v.ShowPermissionPrompt()
		v.SetStatusText(StatusPermissionDenied)
		l.logger.Error("failed to open camera", "error", err)
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	l.setState(Streaming)
	v.SetStatusText(StatusConnected)
	v.HideLoading()
	v.ShowStream()

	l.logger.Info("streaming started", "mode", l.cfg.Backend.Mode(), "fps", l.cfg.FPS)
	go l.run(ctx)
	return nil
}

// Stop asks the loop to finish. A tick in progress completes, including its
// network call and render, and no further tick starts. Stop does not wait;
// use Wait for that.
func (l *Loop) Stop() {
	l.stop.Store(true)
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Done is closed once a started loop has fully stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the loop has stopped. It returns at once if the loop
// was never started.
func (l *Loop) Wait() {
	switch l.State() {
	case Idle, AwaitingPermission:
		return
	}
	<-l.done
}

func (l *Loop) stopped(ctx context.Context) bool {
	return l.stop.Load() || ctx.Err() != nil
}

func (l *Loop) run(ctx context.Context) {
	defer l.finish()

	// Requests outlive a cancelled ctx; the transport timeout bounds them.
	reqCtx := context.WithoutCancel(ctx)

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		if l.stopped(ctx) {
			return
		}
		if !l.tick(reqCtx) {
			return
		}
		if l.stopped(ctx) {
			return
		}

		// The delay runs from the end of the tick.
		timer.Reset(l.interval)
		select {
		case <-ctx.Done():
			return
		case <-l.stopCh:
			return
		case <-timer.C:
		}
	}
}

func (l *Loop) finish() {
	l.setState(Stopped)
	l.cfg.View.HideStream()
	if err := l.cfg.Source.Close(); err != nil {
		l.logger.Warn("error closing camera", "error", err)
	}
	l.logger.Info("streaming stopped")
	close(l.done)
}

// tick runs one capture, transmit and render cycle. It returns false when
// the source has failed and the loop must end.
func (l *Loop) tick(ctx context.Context) bool {
	l.cfg.Metrics.Tick()

	frame, err := capture.Snapshot(l.cfg.Source)
	if errors.Is(err, capture.ErrNotReady) {
		l.cfg.Metrics.Skipped()
		return true
	}
	if err != nil {
		l.cfg.Metrics.Error(metrics.StageRead)
		l.cfg.View.ReportError(ErrContextRead, err)
		return false
	}

	payload, err := capture.Encode(frame, l.cfg.Format)
	if err != nil {
		l.cfg.Metrics.Error(metrics.StageEncode)
		l.cfg.View.ReportError(ErrContextEncoding, err)
		return true
	}

	start := time.Now()
	result, err := l.cfg.Backend.SubmitFrame(ctx, payload)
	if err != nil {
		l.cfg.Metrics.Error(metrics.StageTransmit)
		l.cfg.View.ReportError(ErrContextTransmission, err)
		return true
	}

	if l.cfg.Backend.Mode() == transport.ModeAsync {
		result, err = l.cfg.Backend.FetchLatestResult(ctx)
		if err != nil {
			l.cfg.Metrics.Error(metrics.StageFetch)
			l.cfg.View.ReportError(ErrContextTransmission, err)
			return true
		}
	}
	l.cfg.Metrics.ObserveRoundTrip(time.Since(start))

	if result == nil {
		l.cfg.Metrics.Result(metrics.OutcomePending)
		l.cfg.View.SetStatusText(StatusWaiting)
		return true
	}

	l.handleResult(ctx, frame, result)
	return true
}

func (l *Loop) handleResult(ctx context.Context, frame *capture.Frame, result *landmark.Result) {
	canvas := l.canvasFor(frame)

	var status string
	if result.HandDetected() {
		status = StatusDetectedPrefix + result.Gesture
		l.cfg.Metrics.Result(metrics.OutcomeHand)
		render.Overlay(canvas, frame.Image, result.Pose, l.cfg.Style)
		if l.cfg.ShowLabel {
			render.Annotate(canvas, result.Gesture)
		}
	} else {
		status = landmark.NoHandDetected
		l.cfg.Metrics.Result(metrics.OutcomeNoHand)
		render.Overlay(canvas, frame.Image, nil, l.cfg.Style)
	}
	l.cfg.View.SetStatusText(status)

	capturedAt := time.UnixMilli(frame.Timestamp)

	if l.cfg.Publisher != nil {
		u := Update{Result: result, Status: status, Timestamp: capturedAt}
		if s, ok := canvas.(render.Snapshotter); ok {
			img, err := s.Snapshot()
			if err != nil {
				l.logger.Warn("failed to copy canvas", "error", err)
			}
			u.Image = img
		}
		l.cfg.Publisher.Publish(u)
	}

	if l.cfg.Recorder != nil && result.HandDetected() && result.Pose != nil {
		if err := l.cfg.Recorder.Record(ctx, result, capturedAt); err != nil {
			l.logger.Warn("failed to record sample", "gesture", result.Gesture, "error", err)
		}
	}
}

// canvasFor returns the configured canvas, or an image canvas matching the
// frame size.
func (l *Loop) canvasFor(frame *capture.Frame) render.Canvas {
	if l.canvas != nil {
		if l.cfg.Canvas != nil {
			return l.canvas
		}
		if w, h := l.canvas.Size(); w == frame.Width && h == frame.Height {
			return l.canvas
		}
	}
	l.canvas = render.NewImageCanvas(frame.Width, frame.Height)
	l.logger.Debug("canvas sized", "width", frame.Width, "height", frame.Height)
	return l.canvas
}
