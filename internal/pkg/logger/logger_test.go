package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_FileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shellm.log")

	log, err := New(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.With(map[string]interface{}{"session_id": "abc"}).
		Error("backend failed", errors.New("boom"), map[string]interface{}{"model": "gpt4o"})
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{"backend failed", "boom", "gpt4o", "abc"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %q: %s", want, data)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud", File: filepath.Join(t.TempDir(), "x.log")})
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNew_DisabledWithoutFile(t *testing.T) {
	log, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("dropped", nil)
}
