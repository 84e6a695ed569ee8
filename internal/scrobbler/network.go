package scrobbler

import (
	"errors"
	"fmt"
	"time"

	"github.com/mpdscribble-go/mpdscribble/internal/clock"
	"github.com/mpdscribble-go/mpdscribble/internal/journal"
	"github.com/mpdscribble-go/mpdscribble/internal/record"
	"github.com/mpdscribble-go/mpdscribble/internal/transport"
	"github.com/mpdscribble-go/mpdscribble/pkg/audioscrobbler"
	"github.com/rs/zerolog"
)

type state int

const (
	stateNothing state = iota
	stateHandshake
	stateReady
	stateSubmitting
)

func (s state) String() string {
	switch s {
	case stateNothing:
		return "nothing"
	case stateHandshake:
		return "handshake"
	case stateReady:
		return "ready"
	case stateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

const (
	minInterval  = 1 * time.Second
	failureFloor = 60 * time.Second
	maxInterval  = 2 * time.Hour
)

// NetworkScrobbler implements the full AudioScrobbler 1.2 protocol state
// machine for one configured service: handshake, ready, submit, backoff,
// the now-playing slot and the pending-submission counter (spec §4.4).
//
// All mutation happens through methods invoked from the owning event
// loop (via post); NetworkScrobbler performs no locking of its own.
type NetworkScrobbler struct {
	cfg       Config
	logger    zerolog.Logger
	transport *transport.Client
	journal   *journal.Store
	post      func(func())

	state      state
	interval   time.Duration
	session    audioscrobbler.Session
	nowPlaying *record.Record
	queue      []record.Record
	pending    int

	handshakeTimer *time.Timer
	submitTimer    *time.Timer
	submitPending  bool
}

// NewNetworkScrobbler returns a NetworkScrobbler for cfg. post marshals
// every timer and HTTP completion callback back onto the single loop
// goroutine that owns this scrobbler's state.
func NewNetworkScrobbler(cfg Config, tp *transport.Client, post func(func()), logger zerolog.Logger) *NetworkScrobbler {
	s := &NetworkScrobbler{
		cfg:       cfg,
		logger:    logger.With().Str("scrobbler", cfg.Name).Logger(),
		transport: tp,
		post:      post,
		state:     stateNothing,
		interval:  minInterval,
	}
	if cfg.JournalPath != "" {
		s.journal = journal.New(cfg.JournalPath)
	}
	return s
}

func (s *NetworkScrobbler) Name() string { return s.cfg.Name }

// Start loads any journaled queue and arms the initial handshake timer.
// Must be called once, from the loop goroutine, before any other method.
func (s *NetworkScrobbler) Start() {
	if s.journal != nil {
		records, err := s.journal.Read()
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to read journal")
		} else if len(records) > 0 {
			s.queue = append(s.queue, records...)
			s.logger.Info().Int("count", len(records)).Msg("restored queued plays from journal")
		}
	}
	s.armHandshakeTimer()
}

// Push enqueues r as a completed, qualified play, unless the ignore list
// matches it, and arms the submit timer if the scrobbler is ready and
// nothing is already pending.
func (s *NetworkScrobbler) Push(r record.Record) {
	if s.cfg.IgnoreList.Matches(r) {
		return
	}
	s.queue = append(s.queue, r)
	s.scheduleSubmitIfIdle()
}

// ScheduleNowPlaying replaces the now-playing slot with r, unless the
// ignore list matches it, and arms the submit timer the same way Push
// does.
func (s *NetworkScrobbler) ScheduleNowPlaying(r record.Record) {
	if s.cfg.IgnoreList.Matches(r) {
		return
	}
	rr := r
	s.nowPlaying = &rr
	s.scheduleSubmitIfIdle()
}

// scheduleSubmitIfIdle arms the submit timer when the scrobbler is ready
// to submit and no timer is already pending, matching the original's
// "if (state == State::READY && !submit_timer.IsPending()) ScheduleSubmit()".
func (s *NetworkScrobbler) scheduleSubmitIfIdle() {
	if s.state == stateReady && !s.submitPending {
		s.armSubmitTimer()
	}
}

// SubmitNow applies the administrative override: reset the backoff
// interval to 1s and, if a timer is currently armed, cancel and re-arm it
// at the new interval. State is otherwise unchanged.
func (s *NetworkScrobbler) SubmitNow() {
	s.interval = minInterval
	switch s.state {
	case stateNothing:
		s.armHandshakeTimer()
	case stateReady:
		if s.submitPending {
			s.armSubmitTimer()
		}
	}
}

// WriteJournal flushes the in-memory queue to the configured journal
// file. A no-op when no journal path is configured.
func (s *NetworkScrobbler) WriteJournal() error {
	if s.journal == nil {
		return nil
	}
	if err := s.journal.Write(s.queue); err != nil {
		return fmt.Errorf("scrobbler %s: %w", s.cfg.Name, err)
	}
	return nil
}

func (s *NetworkScrobbler) armHandshakeTimer() {
	if s.handshakeTimer != nil {
		s.handshakeTimer.Stop()
	}
	d := s.interval
	s.handshakeTimer = time.AfterFunc(d, func() {
		s.post(func() { s.onHandshakeTimerFire() })
	})
}

func (s *NetworkScrobbler) armSubmitTimer() {
	if s.submitTimer != nil {
		s.submitTimer.Stop()
	}
	d := s.interval
	s.submitTimer = time.AfterFunc(d, func() {
		s.post(func() { s.onSubmitTimerFire() })
	})
	s.submitPending = true
}

func (s *NetworkScrobbler) bumpInterval() {
	next := 2 * s.interval
	if next < failureFloor {
		next = failureFloor
	}
	if next > maxInterval {
		next = maxInterval
	}
	s.interval = next
}

func (s *NetworkScrobbler) onHandshakeTimerFire() {
	if s.state != stateNothing {
		return
	}
	s.state = stateHandshake

	timestamp := fmt.Sprintf("%d", clock.Now())
	token := clock.SessionToken(s.cfg.Password, timestamp)
	url := audioscrobbler.HandshakeURL(s.cfg.URL, s.cfg.Username, timestamp, token)

	go func() {
		body, err := s.transport.Get(url)
		s.post(func() { s.handleHandshakeResponse(body, err) })
	}()
}

func (s *NetworkScrobbler) handleHandshakeResponse(body string, transportErr error) {
	if transportErr != nil {
		s.logger.Error().Err(transportErr).Msg("handshake request failed")
		s.onHandshakeFailure()
		return
	}

	session, err := audioscrobbler.ParseHandshake(body)
	if err != nil {
		var asErr *audioscrobbler.Error
		if errors.As(err, &asErr) {
			s.logger.Error().Str("status", string(asErr.Status)).Str("reason", asErr.Message).Msg("handshake rejected")
		} else {
			s.logger.Error().Err(err).Msg("handshake response malformed")
		}
		s.onHandshakeFailure()
		return
	}

	s.session = session
	s.interval = minInterval
	s.state = stateReady
	s.armSubmitTimer()
}

func (s *NetworkScrobbler) onHandshakeFailure() {
	s.bumpInterval()
	s.state = stateNothing
	s.armHandshakeTimer()
}

func (s *NetworkScrobbler) onSubmitTimerFire() {
	s.submitPending = false
	if s.state != stateReady {
		return
	}
	if len(s.queue) == 0 && s.nowPlaying == nil {
		return
	}
	s.beginSubmitCycle()
}

// beginSubmitCycle sends exactly one request: a submit batch if the
// queue is non-empty, otherwise a now-playing notification. This keeps
// one in-flight request per scrobbler and lets the response handler
// apply a single, unambiguous OK/FAILED/BADSESSION outcome.
func (s *NetworkScrobbler) beginSubmitCycle() {
	s.state = stateSubmitting
	if len(s.queue) > 0 {
		s.sendSubmitBatch()
		return
	}
	s.sendNowPlayingOnly()
}

func (s *NetworkScrobbler) sendSubmitBatch() {
	n := len(s.queue)
	if n > audioscrobbler.MaxBatchSize() {
		n = audioscrobbler.MaxBatchSize()
	}
	batch := append([]record.Record(nil), s.queue[:n]...)
	s.pending = n

	body := audioscrobbler.SubmitBody(s.session.ID, batch)
	url := s.session.SubmitURL
	go func() {
		respBody, err := s.transport.PostForm(url, body)
		s.post(func() { s.handleSubmitResponse(respBody, err) })
	}()
}

func (s *NetworkScrobbler) sendNowPlayingOnly() {
	body := audioscrobbler.NowPlayingBody(s.session.ID, *s.nowPlaying)
	url := s.session.NowPlayingURL
	go func() {
		respBody, err := s.transport.PostForm(url, body)
		s.post(func() { s.handleSubmitResponse(respBody, err) })
	}()
}

func (s *NetworkScrobbler) handleSubmitResponse(body string, transportErr error) {
	if transportErr != nil {
		s.logger.Warn().Err(transportErr).Msg("submit request failed")
		s.onSubmitFailure()
		return
	}

	outcome, respErr := audioscrobbler.ParseSubmitResponse(body)
	switch outcome {
	case audioscrobbler.SubmitOK:
		if s.pending > 0 {
			s.queue = s.queue[s.pending:]
			s.pending = 0
		} else {
			s.nowPlaying = nil
		}
		s.interval = minInterval
		s.state = stateReady
		if len(s.queue) > 0 || s.nowPlaying != nil {
			s.beginSubmitCycle()
		}
		// Otherwise nothing left to submit: leave the timer unarmed until
		// the next Push/ScheduleNowPlaying calls scheduleSubmitIfIdle.

	case audioscrobbler.SubmitBadSession:
		s.logger.Warn().Msg("submit session rejected, re-handshaking")
		s.session = audioscrobbler.Session{}
		s.pending = 0
		s.state = stateNothing
		s.armHandshakeTimer()

	default:
		s.logger.Error().Err(respErr).Msg("submit failed")
		s.onSubmitFailure()
	}
}

func (s *NetworkScrobbler) onSubmitFailure() {
	s.pending = 0
	s.bumpInterval()
	s.state = stateReady
	s.armSubmitTimer()
}
