package scrobbler

import (
	"fmt"
	"time"

	"github.com/mpdscribble-go/mpdscribble/internal/clock"
	"github.com/mpdscribble-go/mpdscribble/internal/record"
	"github.com/rs/zerolog"
)

// DefaultJournalInterval is the journal flush period when the config
// doesn't override it (spec §6's journal_interval/cache_interval).
const DefaultJournalInterval = 600 * time.Second

// MultiScrobbler fans play events out to every configured scrobbler, in
// the order they were configured, and owns the periodic journal-flush
// timer (spec §4.5).
type MultiScrobbler struct {
	scrobblers      []Scrobbler
	journalInterval time.Duration
	post            func(func())
	logger          zerolog.Logger

	journalTimer *time.Timer
}

// NewMultiScrobbler returns a MultiScrobbler fanning out to scrobblers,
// in order. post marshals the journal timer's callback onto the loop.
func NewMultiScrobbler(scrobblers []Scrobbler, journalInterval time.Duration, post func(func()), logger zerolog.Logger) *MultiScrobbler {
	if journalInterval <= 0 {
		journalInterval = DefaultJournalInterval
	}
	return &MultiScrobbler{
		scrobblers:      scrobblers,
		journalInterval: journalInterval,
		post:            post,
		logger:          logger.With().Str("component", "multi-scrobbler").Logger(),
	}
}

// Start loads each network scrobbler's journal and arms the journal
// flush timer. Must be called once, from the loop goroutine.
func (m *MultiScrobbler) Start() {
	for _, s := range m.scrobblers {
		if ns, ok := s.(*NetworkScrobbler); ok {
			ns.Start()
		}
	}
	m.armJournalTimer()
}

// NowPlaying builds a Record from a freshly-started track and dispatches
// ScheduleNowPlaying to every scrobbler.
func (m *MultiScrobbler) NowPlaying(artist, track, album, number, mbid string, length int) {
	if artist == "" || track == "" {
		return
	}
	r := record.Record{
		Artist:        artist,
		Track:         track,
		Album:         album,
		TrackNumber:   number,
		MusicBrainzID: mbid,
		Length:        length,
	}
	for _, s := range m.scrobblers {
		s.ScheduleNowPlaying(r)
	}
}

// SongChange validates and builds a Record for a completed, qualified
// play and dispatches Push to every scrobbler. fileURI classifies the
// Source; when at is nil, the current wall-clock time is used.
func (m *MultiScrobbler) SongChange(fileURI, artist, track, album, number, mbid string, length int, love bool, at *uint64) {
	if artist == "" || track == "" {
		m.logger.Warn().Str("artist", artist).Str("track", track).Msg("dropping song change with empty artist or track")
		return
	}

	ts := clock.Now()
	if at != nil {
		ts = *at
	}

	r := record.Record{
		Artist:        artist,
		Track:         track,
		Album:         album,
		TrackNumber:   number,
		MusicBrainzID: mbid,
		Length:        length,
		Time:          fmt.Sprintf("%d", ts),
		Love:          love,
		Source:        record.SourceFromURI(fileURI),
	}
	for _, s := range m.scrobblers {
		s.Push(r)
	}
}

// SubmitNow applies the administrative override to every scrobbler.
func (m *MultiScrobbler) SubmitNow() {
	for _, s := range m.scrobblers {
		s.SubmitNow()
	}
}

// WriteJournal flushes every scrobbler's journal. A single scrobbler's
// write failure is logged and does not affect the others or the
// in-memory queues (spec §7: "journal timer's failure does not affect
// in-memory state").
func (m *MultiScrobbler) WriteJournal() {
	for _, s := range m.scrobblers {
		if err := s.WriteJournal(); err != nil {
			m.logger.Warn().Err(err).Str("scrobbler", s.Name()).Msg("failed to write journal")
		}
	}
}

func (m *MultiScrobbler) armJournalTimer() {
	if m.journalTimer != nil {
		m.journalTimer.Stop()
	}
	m.journalTimer = time.AfterFunc(m.journalInterval, func() {
		m.post(func() {
			m.WriteJournal()
			m.armJournalTimer()
		})
	})
}

// StopJournalTimer cancels the periodic flush, used during shutdown
// after a final synchronous WriteJournal call.
func (m *MultiScrobbler) StopJournalTimer() {
	if m.journalTimer != nil {
		m.journalTimer.Stop()
	}
}
