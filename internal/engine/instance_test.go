package engine

import (
	"testing"

	"github.com/mpdscribble-go/mpdscribble/internal/player"
	"github.com/mpdscribble-go/mpdscribble/internal/record"
	"github.com/mpdscribble-go/mpdscribble/internal/scrobbler"
	"github.com/rs/zerolog"
)

type recordingScrobbler struct {
	name        string
	pushed      []record.Record
	nowPlayings []record.Record
}

func (r *recordingScrobbler) Name() string { return r.name }
func (r *recordingScrobbler) Push(rec record.Record) {
	r.pushed = append(r.pushed, rec)
}
func (r *recordingScrobbler) ScheduleNowPlaying(rec record.Record) {
	r.nowPlayings = append(r.nowPlayings, rec)
}
func (r *recordingScrobbler) SubmitNow()          {}
func (r *recordingScrobbler) WriteJournal() error { return nil }

func newTestInstance(rec *recordingScrobbler) *Instance {
	loop := NewLoop()
	multi := scrobbler.NewMultiScrobbler([]scrobbler.Scrobbler{rec}, 0, loop.Post, zerolog.Nop())
	connector := &player.Connector{}
	return New(loop, connector, multi, zerolog.Nop())
}

func TestStartedEventDispatchesNowPlaying(t *testing.T) {
	rec := &recordingScrobbler{name: "a"}
	inst := newTestInstance(rec)

	inst.OnPlayerEvent(player.Event{
		Kind: player.Started,
		Song: player.Song{Artist: "Artist", Title: "Track", Duration: 200},
	})

	if len(rec.nowPlayings) != 1 {
		t.Fatalf("expected 1 now-playing dispatch, got %d", len(rec.nowPlayings))
	}
	if rec.nowPlayings[0].Artist != "Artist" || rec.nowPlayings[0].Track != "Track" {
		t.Errorf("unexpected now-playing record: %+v", rec.nowPlayings[0])
	}
}

func TestStartedEventFallsBackToAlbumArtist(t *testing.T) {
	rec := &recordingScrobbler{name: "a"}
	inst := newTestInstance(rec)

	inst.OnPlayerEvent(player.Event{
		Kind: player.Started,
		Song: player.Song{AlbumArtist: "Various", Title: "Track"},
	})

	if len(rec.nowPlayings) != 1 || rec.nowPlayings[0].Artist != "Various" {
		t.Fatalf("expected album artist fallback, got %+v", rec.nowPlayings)
	}
}

func TestQualifiedEndedEventDispatchesSongChange(t *testing.T) {
	rec := &recordingScrobbler{name: "a"}
	inst := newTestInstance(rec)

	inst.OnPlayerEvent(player.Event{
		Kind:    player.Ended,
		Song:    player.Song{Artist: "Artist", Title: "Track", URI: "/music/track.mp3", Duration: 200},
		Elapsed: 250,
	})

	if len(rec.pushed) != 1 {
		t.Fatalf("expected 1 pushed record, got %d", len(rec.pushed))
	}
	if rec.pushed[0].Source != record.SourcePlaylist {
		t.Errorf("expected local-file source, got %v", rec.pushed[0].Source)
	}
}

func TestUnqualifiedEndedEventDoesNotDispatch(t *testing.T) {
	rec := &recordingScrobbler{name: "a"}
	inst := newTestInstance(rec)

	inst.OnPlayerEvent(player.Event{
		Kind:    player.Ended,
		Song:    player.Song{Artist: "Artist", Title: "Track", Duration: 200},
		Elapsed: 10,
	})

	if len(rec.pushed) != 0 {
		t.Fatalf("expected no pushed record for a too-short play, got %d", len(rec.pushed))
	}
}

func TestLovedEndedEventCarriesLoveFlag(t *testing.T) {
	rec := &recordingScrobbler{name: "a"}
	inst := newTestInstance(rec)

	inst.OnPlayerEvent(player.Event{
		Kind:    player.Ended,
		Song:    player.Song{Artist: "Artist", Title: "Track", Duration: 200},
		Elapsed: 240,
		Love:    true,
	})

	if len(rec.pushed) != 1 || !rec.pushed[0].Love {
		t.Fatalf("expected a loved pushed record, got %+v", rec.pushed)
	}
}
