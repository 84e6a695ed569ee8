package scrobbler

import (
	"errors"

	"github.com/mpdscribble-go/mpdscribble/internal/record"
)

// Config describes one configured scrobbling destination: either a
// network service (URL + username + password) or a local file sink
// (File), never both.
type Config struct {
	Name string

	URL      string
	Username string
	Password string

	File string

	JournalPath string
	IgnoreList  record.IgnoreList
}

// IsFileMode reports whether this config names a file sink rather than a
// network service.
func (c Config) IsFileMode() bool {
	return c.File != ""
}

// Validate enforces the network-vs-file mutual exclusion and the
// required fields for whichever mode is selected.
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.New("scrobbler config is missing a name")
	}
	if c.File != "" {
		if c.URL != "" || c.Username != "" || c.Password != "" {
			return errors.New("scrobbler " + c.Name + ": file and url/username/password are mutually exclusive")
		}
		return nil
	}
	if c.URL == "" {
		return errors.New("scrobbler " + c.Name + ": must set either file or url")
	}
	if c.Username == "" || c.Password == "" {
		return errors.New("scrobbler " + c.Name + ": username and password are required for network mode")
	}
	return nil
}
