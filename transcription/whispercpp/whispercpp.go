// Package whispercpp transcribes audio locally by running the whisper.cpp
// command line tool.
package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/scribe/process"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/transcription"
)

const (
	defaultBinary      = "whisper-cli"
	defaultGracePeriod = 2 * time.Second
)

// Config is the static configuration of the whisper.cpp adapter. A model
// path set in settings takes precedence over ModelPath.
type Config struct {
	Binary    string `mapstructure:"binary"`
	ModelPath string `mapstructure:"model_path"`
	// FFmpegPath, when set, converts non-WAV input to 16kHz mono PCM first.
	FFmpegPath  string        `mapstructure:"ffmpeg_path"`
	Threads     int           `mapstructure:"threads"`
	TempDir     string        `mapstructure:"temp_dir"`
	GracePeriod time.Duration `mapstructure:"grace_period"`
}

// Provider is the whisper.cpp adapter.
type Provider struct {
	cfg Config
	run func(context.Context, process.Command) (*process.Result, error)
}

var _ transcription.Adapter = (*Provider)(nil)

// NewProvider creates a whisper.cpp adapter.
func NewProvider(cfg Config) *Provider {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	if cfg.GracePeriod == 0 {
		cfg.GracePeriod = defaultGracePeriod
	}
	return &Provider{cfg: cfg, run: process.Run}
}

// Factory builds whisper.cpp adapters from a config section.
func Factory() provider.Factory[transcription.Adapter] {
	return func(raw map[string]any) (transcription.Adapter, error) {
		var cfg Config
		if err := transcription.DecodeConfig(raw, &cfg); err != nil {
			return nil, err
		}
		return NewProvider(cfg), nil
	}
}

func (p *Provider) Name() string { return string(transcription.ProviderWhisperCpp) }

// IsAvailable reports whether the binary resolves and the default model,
// if one is configured, exists.
func (p *Provider) IsAvailable(context.Context) bool {
	if !process.Available(p.cfg.Binary) {
		return false
	}
	if p.cfg.ModelPath == "" {
		return true
	}
	_, err := os.Stat(p.cfg.ModelPath)
	return err == nil
}

// Execute writes req.Audio to a scratch directory and transcribes it.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (string, error) {
	model := req.Config.Model
	if model == "" {
		model = p.cfg.ModelPath
	}
	if model == "" {
		return "", p.setupFailure("No whisper.cpp model is configured. Set a model path in settings.", nil)
	}
	if _, err := os.Stat(model); err != nil {
		return "", p.setupFailure(fmt.Sprintf("The whisper.cpp model %q could not be opened.", model), err)
	}

	dir, err := os.MkdirTemp(p.cfg.TempDir, "scribe-whispercpp-*")
	if err != nil {
		return "", p.setupFailure("Could not create a scratch directory for local transcription.", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	ext, _ := transcription.AudioFormat(req.Audio)
	input := filepath.Join(dir, "input"+ext)
	if err := os.WriteFile(input, req.Audio, 0o600); err != nil {
		return "", p.setupFailure("Could not write audio for local transcription.", err)
	}

	if ext != ".wav" && p.cfg.FFmpegPath != "" {
		converted := filepath.Join(dir, "input-16k-mono.wav")
		if _, err := p.run(ctx, process.Command{
			Binary:      p.cfg.FFmpegPath,
			Args:        ffmpegArgs(input, converted),
			GracePeriod: p.cfg.GracePeriod,
		}); err != nil {
			return "", p.failure(err)
		}
		input = converted
	}

	res, err := p.run(ctx, process.Command{
		Binary:      p.cfg.Binary,
		Args:        p.whisperArgs(model, input, req.Config),
		Dir:         dir,
		GracePeriod: p.cfg.GracePeriod,
	})
	if err != nil {
		return "", p.failure(err)
	}
	return parseTranscript(res.Stdout), nil
}

func (p *Provider) whisperArgs(model, input string, cfg transcription.ProviderConfig) []string {
	lang := cfg.Language
	if lang == "" {
		lang = "auto"
	}
	args := []string{"-m", model, "-f", input, "-l", lang, "-nt", "-np"}
	if p.cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(p.cfg.Threads))
	}
	if cfg.Prompt != "" {
		args = append(args, "--prompt", cfg.Prompt)
	}
	if cfg.Temperature > 0 {
		args = append(args, "-tp", strconv.FormatFloat(cfg.Temperature, 'f', -1, 64))
	}
	return args
}

func ffmpegArgs(input, output string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", input,
		"-vn", "-ac", "1", "-ar", "16000", "-c:a", "pcm_s16le",
		output,
	}
}

// parseTranscript joins the non-empty lines whisper.cpp prints.
func parseTranscript(stdout []byte) string {
	var parts []string
	for _, line := range strings.Split(string(stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

func (p *Provider) failure(err error) *transcription.Failure {
	if errors.Is(err, process.ErrBinaryNotFound) {
		return p.setupFailure("The whisper.cpp binary could not be found. Check the local engine installation.", err)
	}
	if _, ok := process.AsExitError(err); ok {
		return transcription.ProviderFailure(transcription.ProviderWhisperCpp, transcription.ProviderMalformedInput, err)
	}
	return transcription.FailureFromError(transcription.ProviderWhisperCpp, err)
}

func (p *Provider) setupFailure(description string, cause error) *transcription.Failure {
	f := transcription.ProviderFailure(transcription.ProviderWhisperCpp, transcription.ProviderUnknown, cause)
	f.Title = "Local engine is not set up"
	f.Description = description
	return f
}
