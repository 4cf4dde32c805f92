package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/valter-silva-au/logiclens/pkg/models"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestReadExternal_TextFormat(t *testing.T) {
	path := writeTempFile(t, "app.log", `[ERROR] Database: connection refused
[INFO] Server: listening on :5000
not a log line
[warning] Cache: miss rate high
`)

	events, skipped, err := ReadExternal(path, FormatText)
	if err != nil {
		t.Fatalf("reading text log: %v", err)
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped line, got %d", skipped)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	if events[0].Component != "Database" {
		t.Errorf("expected component Database, got %q", events[0].Component)
	}
	if events[0].Level != models.LevelError {
		t.Errorf("expected level ERROR, got %s", events[0].Level)
	}
	if events[0].Message != "connection refused" {
		t.Errorf("expected message 'connection refused', got %q", events[0].Message)
	}

	// Lowercase level names normalize.
	if events[2].Level != models.LevelWarning {
		t.Errorf("expected level WARNING, got %s", events[2].Level)
	}
}

func TestReadExternal_TextUnknownLevelBecomesInfo(t *testing.T) {
	path := writeTempFile(t, "app.log", "[TRACE] Worker: started\n")

	events, skipped, err := ReadExternal(path, FormatText)
	if err != nil {
		t.Fatalf("reading text log: %v", err)
	}
	if skipped != 0 {
		t.Errorf("expected 0 skipped lines, got %d", skipped)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Level != models.LevelInfo {
		t.Errorf("expected unknown level to become INFO, got %s", events[0].Level)
	}
}

func TestReadExternal_JSONLFormat(t *testing.T) {
	path := writeTempFile(t, "app.jsonl", `{"component":"api","message":"ok","level":"INFO"}
{"broken json
{"component":"db","message":"slow query","level":"WARNING"}
`)

	events, skipped, err := ReadExternal(path, FormatJSONL)
	if err != nil {
		t.Fatalf("reading jsonl log: %v", err)
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped line, got %d", skipped)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].Component != "db" {
		t.Errorf("expected component db, got %q", events[1].Component)
	}
}

func TestReadExternal_BlankLinesIgnored(t *testing.T) {
	path := writeTempFile(t, "app.log", "\n\n[INFO] A: b\n\n")

	events, skipped, err := ReadExternal(path, FormatText)
	if err != nil {
		t.Fatalf("reading text log: %v", err)
	}
	if skipped != 0 {
		t.Errorf("blank lines should not count as skipped, got %d", skipped)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}
}

func TestReadExternal_MissingFile(t *testing.T) {
	_, _, err := ReadExternal(filepath.Join(t.TempDir(), "nope.log"), FormatText)
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestReadExternal_UnsupportedFormat(t *testing.T) {
	path := writeTempFile(t, "app.log", "[INFO] A: b\n")

	_, _, err := ReadExternal(path, ExternalFormat("xml"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
