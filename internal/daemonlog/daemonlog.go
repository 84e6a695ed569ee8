// Package daemonlog configures the zerolog logger the rest of the daemon
// uses, following the teacher's cmd/daemon.go setupLogger: leveled output,
// a console writer for stderr, plain JSON for a file or syslog.
// It additionally resolves the spec's three log destinations ("syslog",
// "-" for stderr, or a file path) and supports SIGHUP's soft reopen.
package daemonlog

import (
	"fmt"
	"log/syslog"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Destination is where log output goes, resolved from the --log flag or
// config file (spec §6).
const (
	DestSyslog = "syslog"
	DestStderr = "-"
)

// redirectWriter is the io.Writer every zerolog.Logger this package hands
// out actually writes through. Its target swaps on Reopen, so copies of
// zerolog.Logger taken before a SIGHUP (zerolog.Logger embeds the writer
// by interface value, not the *os.File) keep writing to the new file
// instead of a closed fd.
type redirectWriter struct {
	mu     sync.Mutex
	target *os.File
}

func (w *redirectWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	f := w.target
	w.mu.Unlock()
	return f.Write(p)
}

func (w *redirectWriter) setTarget(f *os.File) {
	w.mu.Lock()
	w.target = f
	w.mu.Unlock()
}

// Logger owns the current output and can reopen its file destination on
// SIGHUP without dropping previously-handed-out zerolog.Logger values: the
// logger is built once over a redirectWriter, and Reopen only swaps that
// writer's target file.
type Logger struct {
	path   string
	file   *os.File
	writer *redirectWriter
	logger zerolog.Logger
}

// LevelFromVerbosity maps the spec's --verbose N flag onto zerolog levels:
// 0=error, 1=warning, 2=info, 3 or higher=debug.
func LevelFromVerbosity(verbose int) zerolog.Level {
	switch {
	case verbose <= 0:
		return zerolog.ErrorLevel
	case verbose == 1:
		return zerolog.WarnLevel
	case verbose == 2:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// New resolves path (DestSyslog, DestStderr, or a file path) and returns a
// Logger at the given level. Syslog failures fall back to stderr rather
// than preventing startup.
func New(path string, level zerolog.Level) (*Logger, error) {
	l := &Logger{path: path}
	if err := l.open(level); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Logger) open(level zerolog.Level) error {
	switch l.path {
	case DestSyslog:
		w, err := syslog.New(syslog.LOG_DAEMON|syslog.LOG_INFO, "mpdscribble")
		if err != nil {
			fmt.Fprintf(os.Stderr, "syslog unavailable, falling back to stderr: %v\n", err)
			l.logger = consoleLogger(level)
			return nil
		}
		l.logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
		return nil

	case DestStderr, "":
		l.logger = consoleLogger(level)
		return nil

	default:
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file %s: %w", l.path, err)
		}
		l.file = f
		l.writer = &redirectWriter{target: f}
		l.logger = zerolog.New(l.writer).Level(level).With().Timestamp().Logger()
		return nil
	}
}

func consoleLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Logger returns the current zerolog.Logger. Callers are free to hold onto
// their copy across a Reopen: it writes through the same redirectWriter,
// whose target Reopen swaps underneath it.
func (l *Logger) Logger() zerolog.Logger {
	return l.logger
}

// Reopen opens a new file at the same path and re-points the existing
// logger's writer at it, then closes the old file: the soft-reload
// behavior a SIGHUP triggers (spec §6, optional), e.g. after an external
// logrotate. Already-handed-out zerolog.Logger copies keep working since
// they share this Logger's redirectWriter rather than the *os.File
// directly. A no-op for syslog/stderr destinations, which have nothing to
// rotate.
func (l *Logger) Reopen() error {
	if l.file == nil {
		return nil
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("reopening log file %s: %w", l.path, err)
	}
	old := l.file
	l.file = f
	l.writer.setTarget(f)
	if err := old.Close(); err != nil {
		return fmt.Errorf("closing previous log file: %w", err)
	}
	return nil
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
