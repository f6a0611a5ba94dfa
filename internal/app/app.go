// Package app wires the mudra components together from a configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/render"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/stream"
	"github.com/ayusman/mudra/internal/transport"
	"github.com/ayusman/mudra/internal/view"
)

// Options replaces components that New would otherwise build from the
// configuration. Zero fields are built.
type Options struct {
	Source  capture.Source
	Backend transport.Backend
	// View receives lifecycle calls in addition to the log binder.
	View view.Binder
	// Tray, when set, is added to the view and drives start and stop.
	Tray   *view.Tray
	Logger *slog.Logger
}

// App owns one client session: its source, transport, optional sample store
// and preview server, and the streaming loop of the current run.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	sessionID session.ID
	startedAt time.Time

	source   capture.Source
	backend  transport.Backend
	view     view.Binder
	tray     *view.Tray
	metrics  *metrics.Metrics
	store    *store.Store
	recorder *store.Recorder
	server   *server.Server

	mu   sync.Mutex
	loop *stream.Loop
	ctx  context.Context
}

// New builds an App from cfg. The configuration must be valid.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		cfg:       cfg,
		sessionID: session.New(),
		startedAt: time.Now(),
		metrics:   metrics.New(),
		tray:      opts.Tray,
	}
	a.logger = logger.With("session", a.sessionID.String())

	a.source = opts.Source
	if a.source == nil {
		camera := capture.NewCamera(cfg.Camera.Device)
		camera.SetFPS(cfg.Camera.FPS)
		a.source = camera
	}

	a.backend = opts.Backend
	if a.backend == nil {
		a.backend = a.newBackend()
	}

	views := view.Multi{view.NewLogBinder(a.logger)}
	if opts.View != nil {
		views = append(views, opts.View)
	}
	if a.tray != nil {
		views = append(views, a.tray)
	}
	a.view = views

	if cfg.Store.Path != "" {
		if err := a.openStore(ctx); err != nil {
			return nil, err
		}
	}

	if cfg.Preview.Enabled {
		a.server = server.New(server.Config{
			Store:     a.store,
			Metrics:   a.metrics,
			SessionID: a.sessionID.String(),
			Logger:    a.logger,
		})
	}

	if a.tray != nil {
		a.tray.OnToggle(a.handleToggle)
	}

	return a, nil
}

func (a *App) newBackend() transport.Backend {
	opts := transport.Options{
		BaseURL:     a.cfg.Server.URL,
		FieldName:   a.cfg.Image.Field,
		FileName:    a.cfg.Image.Filename,
		ContentType: capture.ContentType(a.cfg.Image.Format),
		Timeout:     a.cfg.Server.Timeout,
		Logger:      a.logger,
	}
	if transport.Mode(a.cfg.Server.Mode) == transport.ModeAsync {
		return transport.NewAsyncClient(opts, a.sessionID)
	}
	return transport.NewSyncClient(opts)
}

func (a *App) openStore(ctx context.Context) error {
	st, err := store.New(a.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open sample store: %w", err)
	}

	rec, err := st.NewRecorder(ctx, &store.Session{
		ID:        a.sessionID.String(),
		Mode:      string(a.backend.Mode()),
		ServerURL: a.cfg.Server.URL,
		StartedAt: a.startedAt,
	}, a.cfg.Store.RecordLabel)
	if err != nil {
		st.Close()
		return fmt.Errorf("register session: %w", err)
	}

	a.store = st
	a.recorder = rec
	a.logger.Info("recording samples", "path", a.cfg.Store.Path, "label", a.cfg.Store.RecordLabel)
	return nil
}

// SessionID returns the client identifier of this process.
func (a *App) SessionID() session.ID {
	return a.sessionID
}

// Metrics returns the metrics of this App.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// Server returns the preview server, or nil when the preview is disabled.
func (a *App) Server() *server.Server {
	return a.server
}

// Store returns the sample store, or nil when recording is disabled.
func (a *App) Store() *store.Store {
	return a.store
}

// Run serves the preview, starts streaming and blocks until ctx is
// cancelled. Without a tray Run also returns when the stream ends on its
// own, for example after a camera failure; a refused camera is returned as
// an error wrapping stream.ErrPermissionDenied.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)
	if a.server != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.server.ListenAndServe(ctx, a.cfg.Preview.Addr); err != nil {
				serveErr <- fmt.Errorf("preview server: %w", err)
				cancel()
			}
		}()
	}

	err := a.StartStream(ctx)
	if err != nil && (a.tray == nil || !errors.Is(err, stream.ErrPermissionDenied)) {
		cancel()
		wg.Wait()
		return err
	}

	if a.tray == nil {
		select {
		case <-ctx.Done():
		case <-a.done():
		}
	} else {
		<-ctx.Done()
	}

	a.StopStream()
	cancel()
	wg.Wait()

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// Close releases the sample store.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *App) handleToggle(streaming bool) {
	if !streaming {
		a.StopStream()
		return
	}

	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.StartStream(ctx); err != nil {
		a.logger.Warn("failed to start stream", "error", err)
	}
}

func (a *App) style() render.Style {
	style := render.DefaultStyle()
	style.BaseRadius = a.cfg.Render.BaseRadius
	return style
}
