package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newJSON(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "test-svc", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := newJSON(&buf, "debug")

	l.Info("stored", map[string]interface{}{"recording_id": "r1", "bytes": 16})

	m := decodeLine(t, &buf)
	if m["message"] != "stored" {
		t.Errorf("message = %v", m["message"])
	}
	if m["service"] != "test-svc" {
		t.Errorf("service = %v", m["service"])
	}
	if m["recording_id"] != "r1" {
		t.Errorf("recording_id = %v", m["recording_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSON(&buf, "warn")

	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn entry, got %q", buf.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newJSON(&buf, "loud")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWithComponentAndContext(t *testing.T) {
	var buf bytes.Buffer
	l := newJSON(&buf, "info").WithComponent("orchestrator")

	ctx := ContextWithRequestID(context.Background(), "req-42")
	l.WithContext(ctx).Info("hello")

	m := decodeLine(t, &buf)
	if m[FieldComponent] != "orchestrator" {
		t.Errorf("component = %v", m[FieldComponent])
	}
	if m[FieldRequestID] != "req-42" {
		t.Errorf("request_id = %v", m[FieldRequestID])
	}
}

func TestErrorValuesAreRendered(t *testing.T) {
	var buf bytes.Buffer
	newJSON(&buf, "info").Error("failed", map[string]interface{}{"error": errors.New("boom")})

	m := decodeLine(t, &buf)
	if m["error"] != "boom" {
		t.Errorf("error = %v", m["error"])
	}
}

func TestFieldHelpers(t *testing.T) {
	f := Fields("a", 1, "b", "two", "dangling")
	if len(f) != 2 || f["a"] != 1 || f["b"] != "two" {
		t.Errorf("Fields = %v", f)
	}

	ef := ErrorFields("save", errors.New("disk full"))
	if ef[FieldOperation] != "save" || ef[FieldError] != "disk full" {
		t.Errorf("ErrorFields = %v", ef)
	}

	df := DurationFields("call", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("DurationFields = %v", df)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"bad level", Config{Level: "loud"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if cfg.Level == "" {
				cfg.ApplyDefaults()
			}
			if cfg.Format == "" {
				cfg.Format = FormatJSON
			}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistryGet(t *testing.T) {
	var buf bytes.Buffer
	custom := newJSON(&buf, "info")
	Register("custom", custom)

	if Get("custom") != custom {
		t.Error("expected registered logger")
	}
	if Get("unregistered") == nil {
		t.Error("expected fallback logger")
	}
}
