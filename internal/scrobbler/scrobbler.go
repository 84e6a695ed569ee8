// Package scrobbler implements the per-service AudioScrobbler state
// machine (handshake/ready/submit, backoff, now-playing slot, pending
// submission queue), its file-mode sink counterpart, and the
// multi-scrobbler fan-out that dispatches player events to every
// configured destination and flushes journals on a timer.
package scrobbler

import "github.com/mpdscribble-go/mpdscribble/internal/record"

// Scrobbler is the single operation set both the network state machine
// and the file sink implement (DESIGN NOTES: "polymorphic scrobbler vs.
// file sink... a tagged variant with two cases behind one operation
// set").
type Scrobbler interface {
	// Push enqueues r as a completed, qualified play.
	Push(r record.Record)
	// ScheduleNowPlaying replaces the single now-playing slot with r.
	ScheduleNowPlaying(r record.Record)
	// SubmitNow applies the administrative "submit now" override.
	SubmitNow()
	// WriteJournal flushes the in-memory queue to its journal file, if
	// one is configured. A no-op for scrobblers without a journal path.
	WriteJournal() error
	// Name returns the scrobbler's configured log label.
	Name() string
}
