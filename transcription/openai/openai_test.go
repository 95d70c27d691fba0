package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/scribe/transcription"
)

var wav = []byte("RIFF\x24\x00\x00\x00WAVEfmt ")

// hostedAPI points the SDK's default base URL at srv.
type hostedAPI struct{ target *url.URL }

func (h hostedAPI) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme, r.URL.Host = h.target.Scheme, h.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

func newHosted(t *testing.T, h http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	target, _ := url.Parse(srv.URL)

	p, err := NewProvider(Config{})
	if err != nil {
		t.Fatal(err)
	}
	p.httpClient = &http.Client{Transport: hostedAPI{target: target}}
	return p
}

func checkForm(t *testing.T, r *http.Request, wantModel string) {
	t.Helper()
	if r.URL.Path != "/v1/audio/transcriptions" {
		t.Errorf("path = %s", r.URL.Path)
	}
	if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("auth = %q", got)
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		t.Errorf("parse: %v", err)
		return
	}
	if got := r.FormValue("model"); got != wantModel {
		t.Errorf("model = %q", got)
	}
	if got := r.FormValue("language"); got != "en" {
		t.Errorf("language = %q", got)
	}
}

func TestProvider_ExecuteHosted(t *testing.T) {
	p := newHosted(t, func(w http.ResponseWriter, r *http.Request) {
		checkForm(t, r, goopenai.Whisper1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":" hello from openai "}`))
	})

	text, err := p.Execute(context.Background(), transcription.Request{
		Audio:  wav,
		Config: transcription.ProviderConfig{APIKey: "sk-test", Language: "en"},
	})
	if err != nil || text != "hello from openai" {
		t.Fatalf("Execute = %q, %v", text, err)
	}
}

func TestProvider_BaseURLOverrideSkipsSDK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkForm(t, r, "whisper-large")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"from proxy"}`))
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		static   string
		settings string
	}{
		{name: "settings override", settings: srv.URL + "/v1"},
		{name: "config override", static: srv.URL + "/v1/"},
		{name: "settings win over config", static: "http://127.0.0.1:1/v1", settings: srv.URL + "/v1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, err := Factory()(map[string]any{"timeout": "5s", "base_url": tt.static})
			if err != nil {
				t.Fatal(err)
			}
			p := adapter.(*Provider)
			p.sdk = func(transcription.ProviderConfig) *goopenai.Client {
				t.Fatal("SDK client built for an endpoint override")
				return nil
			}

			text, err := p.Execute(context.Background(), transcription.Request{
				Audio: wav,
				Config: transcription.ProviderConfig{
					APIKey:   "sk-test",
					Model:    "whisper-large",
					BaseURL:  tt.settings,
					Language: "en",
				},
			})
			if err != nil || text != "from proxy" {
				t.Fatalf("Execute = %q, %v", text, err)
			}
		})
	}
}

func TestProvider_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   transcription.ProviderKind
	}{
		{name: "auth", status: http.StatusUnauthorized, want: transcription.ProviderAuthentication},
		{name: "rate limit", status: http.StatusTooManyRequests, want: transcription.ProviderRateLimit},
		{name: "bad audio", status: http.StatusBadRequest, want: transcription.ProviderMalformedInput},
		{name: "unavailable", status: http.StatusServiceUnavailable, want: transcription.ProviderNetwork},
	}
	handler := func(status int) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"invalid_request_error"}}`))
		}
	}
	for _, tt := range tests {
		t.Run(tt.name+"/hosted", func(t *testing.T) {
			p := newHosted(t, handler(tt.status))
			assertFailure(t, p, transcription.ProviderConfig{APIKey: "sk-test"}, tt.want)
		})
		t.Run(tt.name+"/override", func(t *testing.T) {
			srv := httptest.NewServer(handler(tt.status))
			defer srv.Close()
			p, err := NewProvider(Config{})
			if err != nil {
				t.Fatal(err)
			}
			assertFailure(t, p, transcription.ProviderConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}, tt.want)
		})
	}
}

func assertFailure(t *testing.T, p *Provider, cfg transcription.ProviderConfig, want transcription.ProviderKind) {
	t.Helper()
	_, err := p.Execute(context.Background(), transcription.Request{Audio: wav, Config: cfg})
	var f *transcription.Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %v", err)
	}
	if f.ProviderKind != want || f.Provider != transcription.ProviderOpenAI {
		t.Errorf("failure = %+v", f)
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

func TestClassifyNetwork(t *testing.T) {
	if got := classify(context.DeadlineExceeded); got != transcription.ProviderNetwork {
		t.Errorf("deadline = %s", got)
	}
	if got := classify(errors.New("weird")); got != transcription.ProviderUnknown {
		t.Errorf("plain error = %s", got)
	}
}
