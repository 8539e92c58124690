package tracking

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecorder_WritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.csv")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}

	sample := Sample{
		Address: 101,
		XMm:     2500,
		YMm:     3500,
		ZMm:     120,
		Quality: 80,
		At:      time.UnixMilli(1700000000000),
	}
	if err := rec.Append(sample); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("file has %d lines, want 2", len(lines))
	}
	if lines[0] != RecordHeader {
		t.Errorf("header = %q, want %q", lines[0], RecordHeader)
	}
	if lines[1] != "101,2500,3500,120,80,1700000000000" {
		t.Errorf("row = %q, want %q", lines[1], "101,2500,3500,120,80,1700000000000")
	}
}

func TestRecorder_TruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.csv")
	if err := os.WriteFile(path, []byte("stale content\nmore stale\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	rec.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.TrimSpace(string(data)) != RecordHeader {
		t.Errorf("file = %q, want header only", string(data))
	}
}

func TestRecorder_AppendAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.csv")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	rec.Close()

	if err := rec.Append(Sample{Address: 1, At: time.Now()}); !errors.Is(err, ErrRecorderClosed) {
		t.Errorf("Append() error = %v, want ErrRecorderClosed", err)
	}

	// Close is idempotent
	if err := rec.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestRecorder_SessionIDs(t *testing.T) {
	dir := t.TempDir()

	first, err := NewRecorder(filepath.Join(dir, "a.csv"))
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	defer first.Close()

	second, err := NewRecorder(filepath.Join(dir, "b.csv"))
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	defer second.Close()

	if first.Session() == "" || second.Session() == "" {
		t.Error("session ID is empty")
	}
	if first.Session() == second.Session() {
		t.Error("session IDs collide")
	}
}
