// Package audioscrobbler implements the wire format of the AudioScrobbler
// Submissions Protocol, version 1.2: the handshake that exchanges a
// username and password-derived session token for a session id and two
// per-session URLs, the now-playing notification, and the batched submit
// request, along with the line-oriented plaintext responses all three
// produce.
//
// This package is deliberately low-level and synchronous: it builds
// request URLs/bodies and parses response bodies, but performs no I/O of
// its own. Callers (see internal/scrobbler) own the HTTP transport, the
// retry/backoff schedule, and the on-disk queue; this package only knows
// the protocol.
//
// The protocol is documented informally at
// https://www.audioscrobbler.net/development/protocol/ (version 1.2); the
// client id "mdc" and exact request field ordering here match what the
// original mpdscribble client sends.
package audioscrobbler

// ClientID identifies this client to the scrobbling service, as required
// by the handshake. It is fixed by the protocol convention mpdscribble
// established and must not be changed per service.
const ClientID = "mdc"

// ClientVersion is sent as the handshake's protocol client version.
const ClientVersion = "0.1.0"

// ProtocolVersion is the AudioScrobbler protocol version this package
// implements.
const ProtocolVersion = "1.2"
