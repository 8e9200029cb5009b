package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// Log level mapping
var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// loggers holds the loggers for one CLI invocation
type loggers struct {
	main    *slog.Logger
	queries *slog.Logger
	logPath string
	files   []io.Closer
}

// initLogging opens the log file under the XDG cache dir. With logQueries
// the store's statements are also printed to stderr.
func initLogging(logLevel string, logQueries bool) (*loggers, error) {
	level, ok := logLevelMap[strings.ToLower(logLevel)]
	if !ok {
		level = slog.LevelWarn
	}

	logDir := getXDGCacheDir()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "nanotodos.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	fileHandler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})

	l := &loggers{
		main:    slog.New(fileHandler),
		logPath: logPath,
		files:   []io.Closer{logFile},
	}
	slog.SetDefault(l.main)

	l.queries = l.main
	if logQueries {
		stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		l.queries = slog.New(&multiHandler{
			handlers: []slog.Handler{fileHandler, stderrHandler},
		}).With("logger", "queries")
	}

	l.main.Debug("logging initialized",
		"level", level.String(),
		"log_file", logPath,
		"log_queries_stderr", logQueries)

	return l, nil
}

// forCommand tags every logger with a fresh run id and the command name
func (l *loggers) forCommand(name string) *loggers {
	runID := uuid.NewString()
	return &loggers{
		main:    l.main.With("run_id", runID, "command", name),
		queries: l.queries.With("run_id", runID, "command", name),
		logPath: l.logPath,
		files:   l.files,
	}
}

func (l *loggers) close() {
	for _, f := range l.files {
		_ = f.Close()
	}
	l.files = nil
}

// getXDGCacheDir returns the XDG cache directory for nanotodos
func getXDGCacheDir() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "nanotodos")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Last resort - use temp directory
		return filepath.Join(os.TempDir(), "nanotodos")
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(homeDir, "Library", "Caches", "nanotodos")
	}

	return filepath.Join(homeDir, ".cache", "nanotodos")
}

// multiHandler implements slog.Handler to write to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}
