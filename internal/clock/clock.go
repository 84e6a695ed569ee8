// Package clock provides the wall-clock and credential-hashing primitives
// the rest of the daemon is built on: a timestamp source and the
// AudioScrobbler 1.2 session-token derivation.
package clock

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Now returns the current wall-clock time in seconds since the Unix epoch,
// used for Record timestamps and handshake timestamps.
func Now() uint64 {
	return uint64(time.Now().Unix())
}

// MD5Hex returns the lowercase hex-encoded MD5 digest of data.
func MD5Hex(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// isPreHashed reports whether password already looks like a 32-character
// lowercase hex MD5 digest, in which case it is used as-is rather than
// hashed again.
func isPreHashed(password string) bool {
	if len(password) != 32 {
		return false
	}
	for _, c := range password {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

// SessionToken computes the AudioScrobbler 1.2 authentication token:
// md5_hex(md5_hex(password) + timestamp), skipping the inner hash when
// password is already a pre-hashed 32-hex-character digest. This nesting
// is protocol-mandated and must not be changed.
func SessionToken(password, timestamp string) string {
	hashedPassword := password
	if !isPreHashed(password) {
		hashedPassword = MD5Hex([]byte(password))
	}
	return MD5Hex([]byte(hashedPassword + timestamp))
}
