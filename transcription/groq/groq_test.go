package groq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/scribe/transcription"
)

func TestProvider_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != transcriptionsPath {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse: %v", err)
			return
		}
		if got := r.FormValue("model"); got != defaultModel {
			t.Errorf("model = %q", got)
		}
		_, _ = w.Write([]byte(`{"text":"groq says hi"}`))
	}))
	defer srv.Close()

	adapter, err := Factory()(map[string]any{"base_url": srv.URL, "timeout": "5s"})
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if adapter.Name() != "groq" || !adapter.IsAvailable(context.Background()) {
		t.Fatal("unexpected identity")
	}

	text, err := adapter.Execute(context.Background(), transcription.Request{
		Audio:  []byte("RIFF....WAVE"),
		Config: transcription.ProviderConfig{APIKey: "gsk_test"},
	})
	if err != nil || text != "groq says hi" {
		t.Fatalf("Execute = %q, %v", text, err)
	}
}

func TestProvider_MissingKey(t *testing.T) {
	p, err := NewProvider(Config{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Execute(context.Background(), transcription.Request{Audio: []byte("x")})
	var f *transcription.Failure
	if !errors.As(err, &f) || f.ProviderKind != transcription.ProviderAuthentication {
		t.Errorf("expected authentication failure, got %v", err)
	}
}

func TestFactory_BadConfig(t *testing.T) {
	if _, err := Factory()(map[string]any{"timeout": "soon"}); err == nil {
		t.Error("expected decode error")
	}
}
