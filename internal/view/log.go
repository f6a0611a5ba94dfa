package view

import (
	"log/slog"
	"sync"
)

// LogBinder writes view updates to a structured logger. Repeated status
// texts are logged once at info level and then at debug level, so a steady
// stream of identical results does not flood the log.
type LogBinder struct {
	logger *slog.Logger

	mu     sync.Mutex
	status string
}

var _ Binder = (*LogBinder)(nil)

// NewLogBinder creates a binder logging to logger, or to slog.Default when
// logger is nil.
func NewLogBinder(logger *slog.Logger) *LogBinder {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogBinder{logger: logger.With("component", "view")}
}

func (b *LogBinder) ShowLoading()          { b.logger.Debug("loading shown") }
func (b *LogBinder) HideLoading()          { b.logger.Debug("loading hidden") }
func (b *LogBinder) ShowPermissionPrompt() { b.logger.Warn("camera permission required") }
func (b *LogBinder) HidePermissionPrompt() { b.logger.Debug("permission prompt hidden") }
func (b *LogBinder) ShowStream()           { b.logger.Info("stream shown") }
func (b *LogBinder) HideStream()           { b.logger.Info("stream hidden") }

func (b *LogBinder) SetStatusText(text string) {
	b.mu.Lock()
	repeated := text == b.status
	b.status = text
	b.mu.Unlock()

	if repeated {
		b.logger.Debug("status", "text", text)
		return
	}
	b.logger.Info("status", "text", text)
}

func (b *LogBinder) ReportError(context string, err error) {
	b.mu.Lock()
	b.status = ErrorText(context, err)
	b.mu.Unlock()

	b.logger.Error(context, "error", err)
}

// Status returns the last status text.
func (b *LogBinder) Status() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}
