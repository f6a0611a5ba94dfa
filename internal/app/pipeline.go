package app

import (
	"context"

	"github.com/ayusman/mudra/internal/stream"
)

// closedCh is returned by done when no loop exists.
var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// StartStream starts a new streaming run unless one is active. A loop is
// single use, so each run after a stop gets a fresh one over the same
// source and transport.
func (a *App) StartStream(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.loop != nil && a.loop.State() == stream.Streaming {
		return nil
	}

	cfg := stream.Config{
		Source:    a.source,
		Backend:   a.backend,
		View:      a.view,
		FPS:       a.cfg.Camera.FPS,
		Format:    a.cfg.Image.Format,
		Style:     a.style(),
		ShowLabel: a.cfg.Render.ShowLabel,
		Metrics:   a.metrics,
		Logger:    a.logger,
	}
	if a.recorder != nil {
		cfg.Recorder = a.recorder
	}
	if a.server != nil {
		cfg.Publisher = a.server
	}

	loop := stream.New(cfg)
	if err := loop.Start(ctx); err != nil {
		return err
	}
	a.loop = loop
	return nil
}

// StopStream stops the active run and waits for it to finish.
func (a *App) StopStream() {
	a.mu.Lock()
	loop := a.loop
	a.mu.Unlock()

	if loop == nil {
		return
	}
	loop.Stop()
	loop.Wait()
}

// Streaming reports whether a run is active.
func (a *App) Streaming() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loop != nil && a.loop.State() == stream.Streaming
}

// done returns a channel closed when the current run has ended.
func (a *App) done() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loop == nil {
		return closedCh
	}
	return a.loop.Done()
}
