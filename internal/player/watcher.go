package player

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog"
)

const (
	minMPDVersion  = "0.16.0"
	reconnectDelay = 15 * time.Second
	loveChannel    = "mpdscribble-go"
	loveMessage    = "love"
)

// Connector owns the connection lifecycle to one MPD server: connect,
// idle-subscribe to the "player" and "message" subsystems, translate
// status samples into Detector.Sample calls, and reconnect with a fixed
// backoff on any transport error.
type Connector struct {
	Network  string
	Address  string
	Password string
	Logger   zerolog.Logger

	// Post marshals detector calls onto the engine's single loop
	// goroutine. Defaults to direct, synchronous calls when nil, which is
	// what the package's own tests rely on.
	Post func(func())
}

func (c *Connector) post(f func()) {
	if c.Post == nil {
		f()
		return
	}
	c.Post(f)
}

// Run drives the connect/observe/reconnect loop until ctx is cancelled.
// While disconnected, no samples are delivered to detector — "during
// disconnection all events cease".
func (c *Connector) Run(ctx context.Context, detector *Detector) {
	log := c.Logger.With().Str("component", "mpd-connector").Logger()

	for ctx.Err() == nil {
		client, watcher, err := c.connect()
		if err != nil {
			log.Error().Err(err).Msg("mpd connection failed")
			if !sleepCtx(ctx, reconnectDelay) {
				return
			}
			continue
		}

		log.Info().Str("address", c.Address).Msg("connected to mpd")
		c.observe(ctx, client, watcher, detector, log)

		watcher.Close()
		client.Close()

		if ctx.Err() != nil {
			return
		}
		log.Warn().Dur("delay", reconnectDelay).Msg("mpd connection lost, reconnecting")
		if !sleepCtx(ctx, reconnectDelay) {
			return
		}
	}
}

func (c *Connector) connect() (*mpd.Client, *mpd.Watcher, error) {
	version, err := greetingVersion(c.Network, c.Address)
	if err != nil {
		return nil, nil, fmt.Errorf("reading mpd greeting: %w", err)
	}
	if !versionAtLeast(version, minMPDVersion) {
		return nil, nil, fmt.Errorf("mpd protocol version %s is below the minimum required %s", version, minMPDVersion)
	}

	client, err := mpd.DialAuthenticated(c.Network, c.Address, c.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("dialing mpd: %w", err)
	}

	watcher, err := mpd.NewWatcher(c.Network, c.Address, c.Password, "player", "message")
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("starting mpd idle watcher: %w", err)
	}

	if err := client.Subscribe(loveChannel); err != nil {
		// Client-to-client messaging is optional in older MPD builds; a
		// scrobbler without "love" support still scrobbles fine.
		c.Logger.Warn().Err(err).Msg("mpd client-to-client channel subscribe failed, love flag disabled")
	}

	return client, watcher, nil
}

func (c *Connector) observe(ctx context.Context, client *mpd.Client, watcher *mpd.Watcher, detector *Detector, log zerolog.Logger) {
	// Prime the detector with the current state immediately on connect,
	// then again on every "player" idle event; a "message" idle event
	// reads pending love messages instead.
	c.poll(client, detector, log)

	for {
		select {
		case <-ctx.Done():
			return
		case subsystem, ok := <-watcher.Event:
			if !ok {
				return
			}
			switch subsystem {
			case "player":
				c.poll(client, detector, log)
			case "message":
				c.drainMessages(client, detector, log)
			}
		case err, ok := <-watcher.Error:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("mpd idle watcher error")
			return
		}
	}
}

func (c *Connector) poll(client *mpd.Client, detector *Detector, log zerolog.Logger) {
	status, err := client.Status()
	if err != nil {
		log.Error().Err(err).Msg("mpd status query failed")
		return
	}
	song, err := client.CurrentSong()
	if err != nil {
		log.Error().Err(err).Msg("mpd current song query failed")
		return
	}

	sample := toSample(status, song)
	c.post(func() { detector.Sample(sample) })
}

func (c *Connector) drainMessages(client *mpd.Client, detector *Detector, log zerolog.Logger) {
	messages, err := client.ReadMessages(loveChannel)
	if err != nil {
		log.Warn().Err(err).Msg("mpd ReadMessages failed")
		return
	}
	for _, m := range messages {
		if strings.TrimSpace(m.Message) == loveMessage {
			c.post(detector.Love)
		}
	}
}

func toSample(status, song mpd.Attrs) Sample {
	s := Sample{State: parseState(status["state"])}

	s.Song.ID = song["Id"]
	s.Song.Artist = song["Artist"]
	s.Song.AlbumArtist = song["AlbumArtist"]
	s.Song.Title = song["Title"]
	s.Song.Album = song["Album"]
	s.Song.TrackNumber = song["Track"]
	s.Song.MusicBrainzID = song["MUSICBRAINZ_TRACKID"]
	s.Song.URI = song["file"]
	s.Song.Duration = parseFloat(firstNonEmpty(song["duration"], status["duration"]))

	s.Elapsed = parseFloat(firstNonEmpty(status["elapsed"], status["time"]))

	return s
}

func parseState(raw string) State {
	switch raw {
	case "play":
		return StatePlay
	case "pause":
		return StatePause
	case "stop":
		return StateStop
	default:
		return StateUnknown
	}
}

func parseFloat(raw string) float64 {
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// greetingVersion opens a short-lived raw connection to read MPD's
// "OK MPD <version>" greeting line, so the minimum-version check can run
// before any gompd client is constructed.
func greetingVersion(network, address string) (string, error) {
	conn, err := net.DialTimeout(network, address, 5*time.Second)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	const prefix = "OK MPD "
	if !strings.HasPrefix(line, prefix) {
		return "", fmt.Errorf("unexpected mpd greeting: %q", line)
	}
	return strings.TrimPrefix(line, prefix), nil
}

// versionAtLeast compares two dotted version strings component-wise.
func versionAtLeast(version, minimum string) bool {
	v := splitVersion(version)
	m := splitVersion(minimum)
	for i := 0; i < len(v) || i < len(m); i++ {
		var vi, mi int
		if i < len(v) {
			vi = v[i]
		}
		if i < len(m) {
			mi = m[i]
		}
		if vi != mi {
			return vi > mi
		}
	}
	return true
}

func splitVersion(s string) []int {
	parts := strings.Split(s, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, _ := strconv.Atoi(p)
		out[i] = n
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
