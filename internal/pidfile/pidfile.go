// Package pidfile writes and removes the daemon's pidfile and wires POSIX
// signals to engine actions (spec §6, §7): SIGTERM/SIGINT for graceful
// shutdown, SIGUSR1 for the admin SubmitNow override, SIGHUP as the
// optional soft log-reopen, and SIGPIPE ignored outright.
package pidfile

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

// Write creates path containing the current process's PID, truncating
// any stale file left behind by a previous run. A blank path is a no-op,
// matching the original daemon treating an unset pidfile as optional.
func Write(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale pidfile %s: %w", path, err)
	}
	content := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing pidfile %s: %w", path, err)
	}
	return nil
}

// Remove deletes path, ignoring a missing file. A blank path is a no-op.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing pidfile %s: %w", path, err)
	}
	return nil
}

// Read returns the PID recorded in path, for submit-now's "find the
// running daemon" convenience.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading pidfile %s: %w", path, err)
	}
	pid, err := strconv.Atoi(string(trimNewline(data)))
	if err != nil {
		return 0, fmt.Errorf("pidfile %s does not contain a valid pid: %w", path, err)
	}
	return pid, nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r' || b[len(b)-1] == ' ') {
		b = b[:len(b)-1]
	}
	return b
}

// Actions are the engine callbacks signal handling dispatches to. Reopen
// is optional (SIGHUP); a nil Reopen simply skips that signal's handling.
type Actions struct {
	Shutdown  func()
	SubmitNow func()
	Reopen    func()
}

// Watch installs signal handlers and blocks until ctx is cancelled or a
// terminating signal arrives, returning once Actions.Shutdown has been
// invoked. Call it from main(), after the engine has been started in its
// own goroutine.
func Watch(ctx context.Context, logger zerolog.Logger, actions Actions) {
	sig := make(chan os.Signal, 4)
	notify(sig)
	defer stopNotify(sig)

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-sig:
			switch classify(s) {
			case signalShutdown:
				logger.Info().Str("signal", s.String()).Msg("received shutdown signal")
				actions.Shutdown()
				return
			case signalSubmitNow:
				logger.Info().Msg("received admin submit-now signal")
				if actions.SubmitNow != nil {
					actions.SubmitNow()
				}
			case signalReopen:
				logger.Info().Msg("received reopen signal")
				if actions.Reopen != nil {
					actions.Reopen()
				}
			case signalIgnored:
				// SIGPIPE: a scrobbler HTTP write hitting a closed
				// connection must not kill the daemon.
			}
		}
	}
}
