package compat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/scribe/httpclient"
	"github.com/kbukum/scribe/transcription"
)

var wav = append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 32)...)

func newEndpoint(t *testing.T, h http.HandlerFunc) Endpoint {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client, err := httpclient.New(httpclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	return Endpoint{
		Client:       client,
		Provider:     "test",
		Path:         "/v1/audio/transcriptions",
		DefaultModel: "default-model",
		RequireKey:   true,
	}
}

func TestTranscribe_SendsForm(t *testing.T) {
	e := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("auth = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse: %v", err)
			return
		}
		want := map[string]string{"model": "default-model", "language": "de", "prompt": "names", "temperature": "0.2", "response_format": "json"}
		for k, v := range want {
			if got := r.FormValue(k); got != v {
				t.Errorf("%s = %q, want %q", k, got, v)
			}
		}
		_, hdr, err := r.FormFile("file")
		if err != nil || hdr.Filename != "audio.wav" {
			t.Errorf("file = %v, %v", hdr, err)
		}
		_, _ = w.Write([]byte(`{"text":"  hello there \n"}`))
	})

	text, err := e.Transcribe(context.Background(), transcription.Request{
		Audio:  wav,
		Config: transcription.ProviderConfig{APIKey: "k", Language: "de", Prompt: "names", Temperature: 0.2},
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello there" {
		t.Errorf("text = %q", text)
	}
}

func TestTranscribe_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		key    string
		want   transcription.ProviderKind
	}{
		{name: "missing key", key: "", want: transcription.ProviderAuthentication},
		{name: "rejected key", status: 401, body: `{"error":{"message":"invalid"}}`, key: "k", want: transcription.ProviderAuthentication},
		{name: "rate limit", status: 429, key: "k", want: transcription.ProviderRateLimit},
		{name: "bad audio", status: 400, key: "k", want: transcription.ProviderMalformedInput},
		{name: "server error", status: 500, key: "k", want: transcription.ProviderUnknown},
		{name: "bad json", status: 200, body: "not json", key: "k", want: transcription.ProviderUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			e := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := e.Transcribe(context.Background(), transcription.Request{
				Audio:  wav,
				Config: transcription.ProviderConfig{APIKey: tt.key},
			})
			var f *transcription.Failure
			if !errors.As(err, &f) {
				t.Fatalf("expected *Failure, got %v", err)
			}
			if f.Kind != transcription.KindProvider || f.ProviderKind != tt.want || f.Provider != "test" {
				t.Errorf("failure = %+v", f)
			}
			if tt.key == "" && called {
				t.Error("missing key must not reach the server")
			}
		})
	}
}

func TestTranscribe_RequestBaseURLOverride(t *testing.T) {
	override := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"text":"from override"}`))
	}))
	defer override.Close()

	e := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("default base URL must not be used")
	})
	e.RequireKey = false

	text, err := e.Transcribe(context.Background(), transcription.Request{
		Audio:  wav,
		Config: transcription.ProviderConfig{BaseURL: override.URL + "/"},
	})
	if err != nil || text != "from override" {
		t.Fatalf("Transcribe = %q, %v", text, err)
	}
}
