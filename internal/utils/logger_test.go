package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitLogger_CreatesLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	cfg := DefaultLogConfig()
	cfg.LogDir = dir
	if err := InitLogger(cfg); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("log directory not created: %v", err)
	}
}

func TestInitLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	cfg := DefaultLogConfig()
	cfg.LogDir = t.TempDir()
	cfg.Level = "nonsense"
	if err := InitLogger(cfg); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}

	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Errorf("global level = %v, want info fallback", got)
	}
}

func TestFilteredWriter_DropsBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	w := &FilteredWriter{Writer: &buf, MinLevel: zerolog.ErrorLevel}

	if _, err := w.WriteLevel(zerolog.InfoLevel, []byte("info line\n")); err != nil {
		t.Fatalf("WriteLevel: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("info entry written to error file: %q", buf.String())
	}

	if _, err := w.WriteLevel(zerolog.ErrorLevel, []byte("error line\n")); err != nil {
		t.Fatalf("WriteLevel: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("error entry dropped")
	}
}
