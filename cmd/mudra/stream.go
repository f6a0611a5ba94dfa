package main

import (
	"context"
	"fmt"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/view"
)

var streamFlags struct {
	server  string
	mode    string
	fps     int
	device  int
	record  string
	label   string
	preview string
	tray    bool
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream camera frames to the inference service",
	Long: `Stream opens the camera and sends one frame per tick to the inference
service. In sync mode each upload returns the result; in async mode frames
are tagged with the session id and the latest result is polled.

Stop with Ctrl-C, or from the tray menu when --tray is set.`,
	Args: cobra.NoArgs,
	RunE: runStream,
}

func init() {
	f := streamCmd.Flags()
	f.StringVar(&streamFlags.server, "server", "", "inference service base URL")
	f.StringVar(&streamFlags.mode, "mode", "", "protocol mode (sync or async)")
	f.IntVar(&streamFlags.fps, "fps", 0, "frames sent per second")
	f.IntVar(&streamFlags.device, "device", 0, "camera device index")
	f.StringVar(&streamFlags.record, "record", "", "record received poses to this SQLite file")
	f.StringVar(&streamFlags.label, "label", "", "label recorded samples with this gesture")
	f.StringVar(&streamFlags.preview, "preview", "", "serve the preview on this address")
	f.BoolVar(&streamFlags.tray, "tray", false, "show a system tray menu")
	rootCmd.AddCommand(streamCmd)
}

func applyStreamFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("server") {
		cfg.Server.URL = streamFlags.server
	}
	if f.Changed("mode") {
		cfg.Server.Mode = streamFlags.mode
	}
	if f.Changed("fps") {
		cfg.Camera.FPS = streamFlags.fps
	}
	if f.Changed("device") {
		cfg.Camera.Device = streamFlags.device
	}
	if f.Changed("record") {
		cfg.Store.Path = streamFlags.record
	}
	if f.Changed("label") {
		cfg.Store.RecordLabel = streamFlags.label
	}
	if f.Changed("preview") {
		cfg.Preview.Enabled = true
		cfg.Preview.Addr = streamFlags.preview
	}
	if f.Changed("tray") {
		cfg.Tray = streamFlags.tray
	}
}

func runStream(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStreamFlags(cmd, cfg)

	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var tray *view.Tray
	if cfg.Tray {
		tray = view.NewTray()
	}

	a, err := app.New(ctx, cfg, app.Options{Tray: tray, Logger: logger})
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("mudra starting",
		"session", a.SessionID().String(),
		"server", cfg.Server.URL,
		"mode", cfg.Server.Mode)

	if tray == nil {
		return a.Run(ctx)
	}

	// The tray owns the main goroutine; the app runs beside it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	tray.OnQuit(cancel)
	if a.Server() != nil {
		url := previewURL(cfg.Preview.Addr)
		tray.OnPreview(func() {
			if err := openBrowser(url); err != nil {
				logger.Warn("failed to open preview", "url", url, "error", err)
			}
		})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		tray.Quit()
	}()
	tray.Run()
	cancel()
	return <-errCh
}

func previewURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/api/stream"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}
