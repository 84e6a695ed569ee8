package scrobbler

import (
	"fmt"
	"os"
	"time"

	"github.com/mpdscribble-go/mpdscribble/internal/record"
	"github.com/rs/zerolog"
)

// fileTimestampLayout matches the original mpdscribble file sink's
// strftime("%F %T") local timestamp.
const fileTimestampLayout = "2006-01-02 15:04:05"

// FileScrobbler is the file-mode sink: it bypasses the protocol state
// machine entirely and appends one line per completed play. Now-playing
// notifications, handshakes and journaling do not apply to it, but its
// ignore list still does.
type FileScrobbler struct {
	name       string
	path       string
	ignoreList record.IgnoreList
	logger     zerolog.Logger
}

// NewFileScrobbler returns a file-mode Scrobbler that appends to path.
func NewFileScrobbler(cfg Config, logger zerolog.Logger) *FileScrobbler {
	return &FileScrobbler{
		name:       cfg.Name,
		path:       cfg.File,
		ignoreList: cfg.IgnoreList,
		logger:     logger.With().Str("scrobbler", cfg.Name).Logger(),
	}
}

func (f *FileScrobbler) Name() string { return f.name }

// Push appends "<log-date> <artist> - <track>\n" to the sink file,
// flushing immediately, unless the ignore list matches r (original
// Scrobbler::Push checks the ignore list before the file-sink branch).
func (f *FileScrobbler) Push(r record.Record) {
	if f.ignoreList.Matches(r) {
		return
	}
	line := fmt.Sprintf("%s %s - %s\n", time.Now().Format(fileTimestampLayout), r.Artist, r.Track)

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		f.logger.Warn().Err(err).Str("path", f.path).Msg("could not open file sink")
		return
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		f.logger.Warn().Err(err).Str("path", f.path).Msg("could not write to file sink")
		return
	}
	if err := file.Sync(); err != nil {
		f.logger.Warn().Err(err).Msg("could not flush file sink")
	}
}

// ScheduleNowPlaying is a no-op: file mode has no now-playing notion.
func (f *FileScrobbler) ScheduleNowPlaying(record.Record) {}

// SubmitNow is a no-op: there is no queue or backoff to accelerate.
func (f *FileScrobbler) SubmitNow() {}

// WriteJournal is a no-op: file mode has no journal.
func (f *FileScrobbler) WriteJournal() error { return nil }
