package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/apper-apps/clientflow-continuous/internal/config"
)

func TestProdLoggerWritesJSONAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.EnvProd, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info().Msg("hidden")
	logger.Warn().Str("table", "client").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if entry["message"] != "shown" || entry["table"] != "client" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatalf("expected timestamp field")
	}
}

func TestLocalLoggerIsVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.EnvLocal, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Trace().Msg("trace line")
	if !strings.Contains(buf.String(), "trace line") {
		t.Fatalf("expected trace output, got %q", buf.String())
	}
}

func TestUnknownEnv(t *testing.T) {
	if _, err := New("staging", &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unknown env")
	}
}
