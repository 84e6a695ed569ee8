// Package engine owns the single-threaded event loop that ties the player
// connection, the play detector and the configured scrobblers together
// (spec §5, §9's "owning structure").
package engine

import (
	"context"
	"time"

	"github.com/mpdscribble-go/mpdscribble/internal/player"
	"github.com/mpdscribble-go/mpdscribble/internal/scrobbler"
	"github.com/rs/zerolog"
)

// shutdownTimeout bounds how long Shutdown waits for the final journal
// write to complete before giving up and returning anyway.
const shutdownTimeout = 5 * time.Second

// Instance wires one MPD connection to one set of configured scrobblers.
// It implements player.Listener itself: detector events arrive here and
// are translated into MultiScrobbler calls, with no back-pointer from the
// scrobbler package to the engine.
type Instance struct {
	loop      *Loop
	multi     *scrobbler.MultiScrobbler
	connector *player.Connector
	detector  *player.Detector
	logger    zerolog.Logger
}

// New returns an Instance driven by loop. Callers construct multi and
// connector (and any NetworkScrobblers inside multi) with loop.Post
// already wired in as their dispatcher, via engine.NewLoop() called
// before either; New overwrites connector.Post with the same value, so
// passing a different loop there would be a caller bug, not supported.
func New(loop *Loop, connector *player.Connector, multi *scrobbler.MultiScrobbler, logger zerolog.Logger) *Instance {
	inst := &Instance{
		loop:      loop,
		multi:     multi,
		connector: connector,
		logger:    logger.With().Str("component", "engine").Logger(),
	}
	inst.detector = player.NewDetector(inst, logger)
	connector.Post = loop.Post
	return inst
}

// Run starts the loop goroutine, arms the scrobblers and journal timer on
// it, then drives the MPD connector's connect/observe/reconnect loop on
// the calling goroutine until ctx is cancelled.
func (inst *Instance) Run(ctx context.Context) {
	go inst.loop.Run(ctx)
	inst.loop.Post(inst.multi.Start)
	inst.connector.Run(ctx, inst.detector)
}

// OnPlayerEvent implements player.Listener. It always runs on the loop
// goroutine, since it is only ever invoked from within a callback the
// connector already posted there.
func (inst *Instance) OnPlayerEvent(e player.Event) {
	switch e.Kind {
	case player.Started:
		artist := effectiveArtist(e.Song)
		inst.multi.NowPlaying(artist, e.Song.Title, e.Song.Album, e.Song.TrackNumber, e.Song.MusicBrainzID, int(e.Song.Duration))

	case player.Ended:
		if !player.Qualifies(e.Elapsed, e.Song.Duration) {
			inst.logger.Debug().Str("song_id", e.Song.ID).Float64("elapsed", e.Elapsed).Msg("play too short, not scrobbling")
			return
		}
		artist := effectiveArtist(e.Song)
		inst.multi.SongChange(e.Song.URI, artist, e.Song.Title, e.Song.Album, e.Song.TrackNumber, e.Song.MusicBrainzID, int(e.Song.Duration), e.Love, nil)
	}
}

// effectiveArtist falls back to the album artist when the track artist tag
// is blank, matching the detector's own missing-tags rule (hasTags treats
// either as sufficient).
func effectiveArtist(s player.Song) string {
	if s.Artist != "" {
		return s.Artist
	}
	return s.AlbumArtist
}

// SubmitNow applies the SIGUSR1 admin override to every scrobbler, posted
// onto the loop like any other externally-triggered mutation.
func (inst *Instance) SubmitNow() {
	inst.loop.Post(inst.multi.SubmitNow)
}

// Shutdown stops the journal timer and performs one last synchronous
// journal write on the loop goroutine, then returns once that completes or
// shutdownTimeout elapses, whichever comes first.
func (inst *Instance) Shutdown() {
	done := make(chan struct{})
	inst.loop.Post(func() {
		inst.multi.StopJournalTimer()
		inst.multi.WriteJournal()
		close(done)
	})
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		inst.logger.Warn().Msg("shutdown timed out waiting for final journal write")
	}
}
