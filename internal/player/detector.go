package player

import "github.com/rs/zerolog"

// Detector turns a stream of Samples into Started/Playing/Paused/Resumed/
// Ended events for a single Listener. It is not safe for concurrent use;
// callers drive it from one goroutine (the event loop).
type Detector struct {
	listener Listener
	logger   zerolog.Logger

	haveSong    bool
	lastSong    Song
	lastElapsed float64
	paused      bool
	tagsOK      bool // whether the current song qualified for Started/Ended
	loveFlag    bool

	loggedMissing map[string]bool
}

// NewDetector returns a Detector that reports to listener.
func NewDetector(listener Listener, logger zerolog.Logger) *Detector {
	return &Detector{
		listener:      listener,
		logger:        logger.With().Str("component", "play-detector").Logger(),
		loggedMissing: make(map[string]bool),
	}
}

// Love records that a "love" client-to-client message arrived. It is
// consumed as a one-shot flag by the next Ended event.
func (d *Detector) Love() {
	d.loveFlag = true
}

// hasTags reports whether song carries enough metadata to be eligible for
// Started/Ended: both artist and album-artist absent, or title absent,
// means the song is skipped.
func hasTags(s Song) bool {
	if s.Artist == "" && s.AlbumArtist == "" {
		return false
	}
	return s.Title != ""
}

// Sample feeds one player observation into the detector, synchronously
// emitting zero or more events to its listener.
func (d *Detector) Sample(s Sample) {
	switch s.State {
	case StatePlay:
		d.samplePlaying(s)
	case StatePause:
		d.samplePaused(s)
	default: // StateStop, StateUnknown
		d.sampleStopped()
	}
}

func (d *Detector) samplePlaying(s Sample) {
	sameSong := d.haveSong && s.Song.ID == d.lastSong.ID

	if sameSong {
		if d.paused {
			d.paused = false
			d.emit(Event{Kind: Resumed, Song: s.Song})
		}

		// Repeat detection: elapsed reset while still on the same id and
		// the previous play qualified means the player looped the track.
		if s.Elapsed < 60 && d.lastElapsed > s.Elapsed && Qualifies(d.lastElapsed, s.Song.Duration) {
			d.endCurrent(s.Song, d.lastElapsed)
			d.startSong(s.Song)
		}
	} else {
		if d.haveSong {
			d.endCurrent(d.lastSong, d.lastElapsed)
		}
		d.startSong(s.Song)
	}

	d.emit(Event{Kind: Playing, Song: s.Song, Elapsed: s.Elapsed})

	d.haveSong = true
	d.lastSong = s.Song
	d.lastElapsed = s.Elapsed
}

func (d *Detector) samplePaused(s Sample) {
	if !d.paused {
		d.paused = true
		d.emit(Event{Kind: Paused, Song: s.Song})
	}
}

func (d *Detector) sampleStopped() {
	if d.haveSong {
		d.endCurrent(d.lastSong, d.lastElapsed)
	}
	d.haveSong = false
	d.paused = false
	d.tagsOK = false
}

// startSong marks s as the current song and, if it carries enough tags,
// emits Started. It always resets the love flag for the new song.
func (d *Detector) startSong(s Song) {
	d.paused = false
	d.loveFlag = false
	d.tagsOK = hasTags(s)
	if d.tagsOK {
		d.emit(Event{Kind: Started, Song: s})
		return
	}
	if !d.loggedMissing[s.ID] {
		d.logger.Warn().Str("song_id", s.ID).Msg("skipping song with missing artist/title tags")
		d.loggedMissing[s.ID] = true
	}
}

// endCurrent emits Ended for the previously-started song, consuming the
// love flag, but only if that song actually qualified for Started.
func (d *Detector) endCurrent(song Song, elapsed float64) {
	if !d.tagsOK {
		return
	}
	love := d.loveFlag
	d.loveFlag = false
	d.tagsOK = false
	d.emit(Event{Kind: Ended, Song: song, Elapsed: elapsed, Love: love})
}

func (d *Detector) emit(e Event) {
	d.listener.OnPlayerEvent(e)
}
