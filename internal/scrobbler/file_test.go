package scrobbler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mpdscribble-go/mpdscribble/internal/record"
	"github.com/rs/zerolog"
)

func TestFileScrobblerAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrobbles.log")
	f := NewFileScrobbler(Config{Name: "file", File: path}, zerolog.Nop())

	f.Push(record.Record{Artist: "A", Track: "T1"})
	f.Push(record.Record{Artist: "B", Track: "T2"})

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(contents), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), string(contents))
	}
	if !strings.HasSuffix(lines[0], "A - T1") {
		t.Errorf("line 0 = %q, want suffix %q", lines[0], "A - T1")
	}
	if !strings.HasSuffix(lines[1], "B - T2") {
		t.Errorf("line 1 = %q, want suffix %q", lines[1], "B - T2")
	}
}

func TestFileScrobblerRespectsIgnoreList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrobbles.log")
	cfg := Config{
		Name:       "file",
		File:       path,
		IgnoreList: record.IgnoreList{{Artist: "Blocked"}},
	}
	f := NewFileScrobbler(cfg, zerolog.Nop())

	f.Push(record.Record{Artist: "Blocked", Track: "T1"})
	f.Push(record.Record{Artist: "OK", Track: "T2"})

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(contents), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (the ignored record should not be written): %q", len(lines), string(contents))
	}
	if !strings.HasSuffix(lines[0], "OK - T2") {
		t.Errorf("line 0 = %q, want suffix %q", lines[0], "OK - T2")
	}
}

func TestFileScrobblerHasNoJournalOrNowPlaying(t *testing.T) {
	f := NewFileScrobbler(Config{Name: "file", File: filepath.Join(t.TempDir(), "x.log")}, zerolog.Nop())
	f.ScheduleNowPlaying(record.Record{Artist: "A", Track: "T"})
	if err := f.WriteJournal(); err != nil {
		t.Fatalf("WriteJournal should be a no-op, got error: %v", err)
	}
}
