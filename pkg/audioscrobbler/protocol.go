package audioscrobbler

import (
	"strconv"
	"strings"

	"github.com/mpdscribble-go/mpdscribble/internal/record"
)

// maxBatchSize is the largest number of records a single submit request
// may carry; the protocol rejects larger batches.
const maxBatchSize = 10

// Session holds the three values a successful handshake returns.
type Session struct {
	ID            string
	NowPlayingURL string
	SubmitURL     string
}

// HandshakeURL builds the handshake GET request URL. token is the
// session token derived via internal/clock.SessionToken from the
// service's password and timestamp.
func HandshakeURL(serviceURL, username, timestamp, token string) string {
	return NewFormBuilder(serviceURL).
		Add("hs", "true").
		Add("p", ProtocolVersion).
		Add("c", ClientID).
		Add("v", ClientVersion).
		Add("u", username).
		Add("t", timestamp).
		Add("a", token).
		String()
}

// ParseHandshake interprets a handshake response body: four lines in
// strict order (status, session id, now-playing URL, submit URL). Any
// non-OK status, a missing line, or an empty URL is reported as an
// *Error; the caller (internal/scrobbler) treats all of these the same
// way for backoff purposes.
func ParseHandshake(body string) (Session, error) {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return Session{}, &Error{Status: StatusMalformed, Message: "empty handshake response"}
	}

	status, rest := parseStatusLine(strings.TrimSpace(lines[0]))
	if status != StatusOK {
		return Session{}, &Error{Status: status, Message: rest}
	}
	if len(lines) < 4 {
		return Session{}, &Error{Status: StatusMalformed, Message: "short handshake response"}
	}

	session := Session{
		ID:            strings.TrimSpace(lines[1]),
		NowPlayingURL: strings.TrimSpace(lines[2]),
		SubmitURL:     strings.TrimSpace(lines[3]),
	}
	if session.ID == "" || session.NowPlayingURL == "" || session.SubmitURL == "" {
		return Session{}, &Error{Status: StatusMalformed, Message: "handshake response carries an empty field"}
	}
	return session, nil
}

// NowPlayingBody builds the form-encoded body of a now-playing POST.
func NowPlayingBody(sessionID string, r record.Record) string {
	return NewFormBuilder("").
		Add("s", sessionID).
		Add("a", r.Artist).
		Add("t", r.Track).
		Add("b", r.Album).
		Add("l", lengthSeconds(r)).
		Add("n", r.TrackNumber).
		Add("m", r.MusicBrainzID).
		String()
}

// MaxBatchSize returns the protocol's batch size cap.
func MaxBatchSize() int { return maxBatchSize }

// SubmitBody builds the form-encoded body of a batched submit POST for
// up to MaxBatchSize records. Callers are responsible for slicing larger
// queues into batches.
func SubmitBody(sessionID string, records []record.Record) string {
	f := NewFormBuilder("").Add("s", sessionID)
	for i, r := range records {
		f.AddIndexed("a", i, r.Artist)
		f.AddIndexed("t", i, r.Track)
		f.AddIndexed("l", i, lengthSeconds(r))
		f.AddIndexed("i", i, r.Time)
		f.AddIndexed("o", i, string(sourceOrDefault(r)))
		if r.Love {
			// The protocol repeats r[i]=L twice for a loved track; this
			// mirrors the original client's wire format exactly.
			f.AddIndexed("r", i, "L")
			f.AddIndexed("r", i, "L")
		} else {
			f.AddIndexed("r", i, "")
		}
		f.AddIndexed("b", i, r.Album)
		f.AddIndexed("n", i, r.TrackNumber)
		f.AddIndexed("m", i, r.MusicBrainzID)
	}
	return f.String()
}

func lengthSeconds(r record.Record) string {
	if r.Length == 0 {
		return ""
	}
	return strconv.Itoa(r.Length)
}

func sourceOrDefault(r record.Record) record.Source {
	if r.Source == record.SourceRadio {
		return record.SourceRadio
	}
	return record.SourcePlaylist
}

// SubmitOutcome classifies a submit response's first line.
type SubmitOutcome int

const (
	SubmitOK SubmitOutcome = iota
	SubmitBadSession
	SubmitFailed
)

// ParseSubmitResponse interprets a submit response body: only the first
// line matters. Anything other than "OK" or "BADSESSION" (including an
// unrecognized line) is treated as FAILED.
func ParseSubmitResponse(body string) (SubmitOutcome, error) {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) == 0 {
		return SubmitFailed, &Error{Status: StatusMalformed, Message: "empty submit response"}
	}
	status, rest := parseStatusLine(strings.TrimSpace(lines[0]))
	switch status {
	case StatusOK:
		return SubmitOK, nil
	case StatusBadSession:
		return SubmitBadSession, &Error{Status: StatusBadSession, Message: rest}
	default:
		return SubmitFailed, &Error{Status: status, Message: rest}
	}
}
