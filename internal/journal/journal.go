// Package journal persists a scrobbler's pending-submission queue to a
// plain-text file so it survives process restarts. The on-disk grammar is
// line-oriented (`key = value`, blank/comment lines ignored) and is meant
// to be hand-editable, matching the original mpdscribble cache file.
package journal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/mpdscribble-go/mpdscribble/internal/record"
)

// Store reads and writes one scrobbler's journal file. It remembers
// whether the file was last known to be empty so that Write can skip
// touching the file when there's nothing new to say.
type Store struct {
	path string

	mu         sync.Mutex
	knownEmpty bool
}

// New returns a Store for the journal file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Read loads all records currently in the journal file. A missing file is
// not an error: it yields an empty queue. Any other read error is
// returned to the caller (callers should log it at warning level and
// treat the queue as empty, per the error-handling taxonomy).
func (s *Store) Read() ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.knownEmpty = true
			return nil, nil
		}
		return nil, fmt.Errorf("opening journal %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing journal %s: %w", s.path, err)
	}

	s.knownEmpty = len(records) == 0
	return records, nil
}

func parse(f *os.File) ([]record.Record, error) {
	var (
		out     []record.Record
		current record.Record
		inGroup bool
	)

	commit := func() {
		if inGroup && current.Valid() {
			out = append(out, current)
		}
		current = record.Record{}
		inGroup = false
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "a" {
			commit()
			current.Artist = value
			inGroup = true
			continue
		}
		if !inGroup {
			// A non-"a" key before any "a" line has no record to attach to.
			continue
		}

		switch key {
		case "t":
			current.Track = value
		case "b":
			current.Album = value
		case "n":
			current.TrackNumber = value
		case "m":
			current.MusicBrainzID = value
		case "i":
			current.Time = value
		case "l":
			if n, err := strconv.Atoi(value); err == nil {
				current.Length = n
			}
		case "o":
			if value == string(record.SourceRadio) {
				current.Source = record.SourceRadio
			} else {
				current.Source = record.SourcePlaylist
			}
		case "r":
			current.Love = value == "L"
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	commit()

	return out, nil
}

// Write rewrites the journal file to hold exactly queue, in order. It is
// not required to be atomic beyond truncate-and-write: the protocol
// tolerates duplicate submissions, so losing a record to a torn write is
// worse than occasionally repeating one. When queue is empty and the
// file was already known to be empty, Write does nothing.
func (s *Store) Write(queue []record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(queue) == 0 && s.knownEmpty {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating journal directory for %s: %w", s.path, err)
		}
	}

	var b strings.Builder
	for _, r := range queue {
		writeLine(&b, "a", r.Artist)
		writeLine(&b, "t", r.Track)
		if r.Album != "" {
			writeLine(&b, "b", r.Album)
		}
		if r.TrackNumber != "" {
			writeLine(&b, "n", r.TrackNumber)
		}
		if r.MusicBrainzID != "" {
			writeLine(&b, "m", r.MusicBrainzID)
		}
		if r.Love {
			writeLine(&b, "r", "L")
		}
		if r.Time != "" {
			writeLine(&b, "i", r.Time)
		}
		if r.Length != 0 {
			writeLine(&b, "l", strconv.Itoa(r.Length))
		}
		if r.Source != "" {
			writeLine(&b, "o", string(r.Source))
		}
		b.WriteByte('\n')
	}

	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing journal %s: %w", s.path, err)
	}

	s.knownEmpty = len(queue) == 0
	return nil
}

func writeLine(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "%s = %s\n", key, value)
}
