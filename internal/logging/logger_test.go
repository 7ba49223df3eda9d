package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"matchdeck/internal/logging"
)

func TestNewWritesToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("hello", logging.String("key", "value"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"key":"value"`) {
		t.Fatalf("expected structured attr in output, got %q", string(data))
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestComponentLoggerToleratesNilBase(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "review")
	// Must not panic, and must swallow output.
	logger.Info("noop")
}
