package pidfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadRemoveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mpdscribble.pid")

	if err := Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	pid, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}
	if err := Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected pidfile to be gone after Remove")
	}
}

func TestWriteOverwritesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mpdscribble.pid")
	if err := os.WriteFile(path, []byte("99999\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if err := Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	pid, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}
}

func TestBlankPathIsNoOp(t *testing.T) {
	if err := Write(""); err != nil {
		t.Fatalf("Write(\"\"): %v", err)
	}
	if err := Remove(""); err != nil {
		t.Fatalf("Remove(\"\"): %v", err)
	}
}

func TestRemoveMissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.pid")
	if err := Remove(path); err != nil {
		t.Fatalf("Remove of missing file should be a no-op, got: %v", err)
	}
}
