// Package compat speaks the OpenAI-compatible audio transcription endpoint
// (multipart upload, JSON {"text": ...} response) shared by Groq and
// self-hosted Whisper servers.
package compat

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/kbukum/scribe/httpclient"
	"github.com/kbukum/scribe/transcription"
)

// Endpoint is one OpenAI-compatible transcription route.
type Endpoint struct {
	Client   *httpclient.Client
	Provider transcription.ProviderID
	// Path is resolved against the request's BaseURL when set, otherwise
	// against the client's.
	Path         string
	DefaultModel string
	// RequireKey fails fast with an authentication failure when no API key
	// is configured.
	RequireKey bool
}

type response struct {
	Text string `json:"text"`
}

// Transcribe uploads req.Audio and returns the transcript. Errors are
// *transcription.Failure values.
func (e Endpoint) Transcribe(ctx context.Context, req transcription.Request) (string, error) {
	cfg := req.Config
	if e.RequireKey && strings.TrimSpace(cfg.APIKey) == "" {
		return "", transcription.ProviderFailure(e.Provider, transcription.ProviderAuthentication, nil)
	}

	_, mime := transcription.AudioFormat(req.Audio)
	fields := map[string]string{
		"model":           firstNonEmpty(cfg.Model, e.DefaultModel),
		"response_format": "json",
	}
	if cfg.Language != "" {
		fields["language"] = cfg.Language
	}
	if cfg.Prompt != "" {
		fields["prompt"] = cfg.Prompt
	}
	if cfg.Temperature > 0 {
		fields["temperature"] = strconv.FormatFloat(cfg.Temperature, 'f', -1, 64)
	}

	path := e.Path
	if cfg.BaseURL != "" {
		path = strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(e.Path, "/")
	}

	httpReq := httpclient.Request{
		Method: http.MethodPost,
		Path:   path,
		Headers: map[string]string{
			"Accept": "application/json",
		},
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "file",
				FileName:    transcription.AudioFileName(req.Audio),
				ContentType: mime,
				Data:        req.Audio,
			}},
		},
	}
	if cfg.APIKey != "" {
		httpReq.Auth = httpclient.BearerAuth(cfg.APIKey)
	}

	resp, err := e.Client.Do(ctx, httpReq)
	if err != nil {
		return "", transcription.FailureFromError(e.Provider, err)
	}

	var out response
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", transcription.ProviderFailure(e.Provider, transcription.ProviderUnknown, err)
	}
	return strings.TrimSpace(out.Text), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
