package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Message prefixes printed on the console
const (
	warnPrefix  = "⚠️  "
	errorPrefix = "❌ "
	tipPrefix   = "💡 "
)

// consoleHandler prints bare messages, one per line, without timestamps or levels
type consoleHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	debug  *atomic.Bool
	quiet  *atomic.Bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.quiet.Load() {
		return false
	}
	return level > slog.LevelDebug || h.debug.Load()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.writer, record.Message)
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *consoleHandler) WithGroup(_ string) slog.Handler { return h }

// fanoutHandler sends each record to every handler that accepts its level
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, record.Level) {
			errs = append(errs, h.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// envInt reads a positive integer (or zero when allowZero) from the environment
func envInt(name string, fallback int, allowZero bool) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n < 0 || (n == 0 && !allowZero) {
		return fallback
	}
	return n
}

// newRotatingFile opens the rotating log file. Size, backup count and age
// can be tuned with GITPUSHER_LOG_MAX_SIZE (MB), GITPUSHER_LOG_MAX_BACKUPS and GITPUSHER_LOG_MAX_AGE (days).
func newRotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    envInt("GITPUSHER_LOG_MAX_SIZE", 1, false),
		MaxBackups: envInt("GITPUSHER_LOG_MAX_BACKUPS", 2, true),
		MaxAge:     envInt("GITPUSHER_LOG_MAX_AGE", 30, false),
	}
}

// Splog writes user-facing messages to the console and, when configured,
// every message including debug output to a rotating log file.
// It is safe for concurrent use.
type Splog struct {
	logger  *slog.Logger
	writer  io.Writer
	logFile io.Closer
	quiet   atomic.Bool
	debug   atomic.Bool
}

// NewSplogWithConfig creates a splog printing to writer (stdout when nil).
// A non-empty logFilePath also logs to that file. Debug messages are
// enabled when the DEBUG environment variable is set.
func NewSplogWithConfig(logFilePath string, writer io.Writer) (*Splog, error) {
	if writer == nil {
		writer = os.Stdout
	}
	s := &Splog{writer: writer}
	s.debug.Store(os.Getenv("DEBUG") != "")

	handlers := fanoutHandler{&consoleHandler{
		mu:     &sync.Mutex{},
		writer: writer,
		debug:  &s.debug,
		quiet:  &s.quiet,
	}}

	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := newRotatingFile(logFilePath)
		s.logFile = file
		handlers = append(handlers, slog.NewTextHandler(file, &slog.HandlerOptions{
			Level: slog.LevelDebug,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String(a.Key, a.Value.Time().Format("2006-01-02 15:04:05.000"))
				}
				return a
			},
		}))
	}

	s.logger = slog.New(handlers)
	return s, nil
}

// SetQuiet suppresses console output while a full-screen UI owns the terminal.
// The log file keeps receiving messages.
func (s *Splog) SetQuiet(quiet bool) {
	s.quiet.Store(quiet)
}

// IsQuiet returns whether console output is suppressed
func (s *Splog) IsQuiet() bool {
	return s.quiet.Load()
}

// SetDebug enables or disables debug output on the console.
// The log file always receives debug messages.
func (s *Splog) SetDebug(debug bool) {
	s.debug.Store(debug)
}

// emit formats a message the way fmt.Sprintf would, except that a message
// without args is printed verbatim
func (s *Splog) emit(level slog.Level, prefix, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.logger.Log(context.Background(), level, prefix+msg)
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	s.emit(slog.LevelInfo, "", format, args)
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	s.emit(slog.LevelWarn, warnPrefix, format, args)
}

// Error writes an error message
func (s *Splog) Error(format string, args ...interface{}) {
	s.emit(slog.LevelError, errorPrefix, format, args)
}

// Debug writes a debug message
func (s *Splog) Debug(format string, args ...interface{}) {
	s.emit(slog.LevelDebug, "", format, args)
}

// Tip writes a hint about what to do next
func (s *Splog) Tip(format string, args ...interface{}) {
	s.emit(slog.LevelInfo, tipPrefix, format, args)
}

// Page writes preformatted output straight to the console
func (s *Splog) Page(content string) {
	if s.IsQuiet() {
		return
	}
	_, _ = io.WriteString(s.writer, content)
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.logFile == nil {
		return nil
	}
	return s.logFile.Close()
}
