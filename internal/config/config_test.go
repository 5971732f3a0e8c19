package config_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/glizzus/audiospriter/internal/config"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestNewSpriteConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("AUDIOSPRITER_SOURCE", "./sounds")
	t.Setenv("AUDIOSPRITER_MAX_DURATION", "30")

	cfg, err := config.NewSpriteConfigFromEnv()
	if err != nil {
		t.Fatalf("NewSpriteConfigFromEnv() returned error: %v", err)
	}

	want := &config.SpriteConfig{
		Source:         "./sounds",
		WavDir:         "./wav-audiosprites",
		BaseName:       "audioSprite",
		MaxDuration:    30,
		Spacing:        0.1,
		SampleRate:     44100,
		Channels:       1,
		FFmpegPath:     "ffmpeg",
		ConvertTimeout: 10 * time.Minute,
		Jobs:           1,
		Verify:         true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestMinioConfigEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinioConfig
		want bool
	}{
		{name: "empty", want: false},
		{name: "no password", cfg: config.MinioConfig{Endpoint: "localhost:9000", Username: "minio"}, want: false},
		{name: "complete", cfg: config.MinioConfig{Endpoint: "localhost:9000", Username: "minio", Password: "secret"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func validConfig() *config.SpriteConfig {
	return &config.SpriteConfig{
		Source:      "/in",
		Destination: "/out",
		WavDir:      "/wav",
		BaseName:    "audioSprite",
		MaxDuration: 600,
		Spacing:     0.1,
		SampleRate:  44100,
		Channels:    1,
		FFmpegPath:  "ffmpeg",
		Jobs:        1,
	}
}

func testFS(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/in", "/out"} {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.SpriteConfig)
		want   []string
	}{
		{name: "valid", modify: func(*config.SpriteConfig) {}},
		{
			name:   "missing directories",
			modify: func(c *config.SpriteConfig) { c.Source = ""; c.Destination = "/nowhere" },
			want:   []string{"must specify source", "destination directory /nowhere doesn't exist"},
		},
		{
			name:   "spacing inside mp3 delay",
			modify: func(c *config.SpriteConfig) { c.Spacing = 0.0269 },
			want:   []string{"spacing duration must be longer than 0.0269"},
		},
		{
			name:   "max leaves no room",
			modify: func(c *config.SpriteConfig) { c.MaxDuration = 0.2 },
			want:   []string{"leaves no room for sounds"},
		},
		{
			name: "every numeric setting",
			modify: func(c *config.SpriteConfig) {
				c.SampleRate = 0
				c.Channels = -1
				c.Jobs = 0
			},
			want: []string{"sample rate must be positive", "channel count must be positive", "jobs must be at least 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate(testFS(t))
			if len(tt.want) == 0 {
				if err != nil {
					t.Fatalf("Validate() returned error: %v", err)
				}
				return
			}
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			for _, fragment := range tt.want {
				if !strings.Contains(err.Error(), fragment) {
					t.Errorf("expected %q in error:\n%v", fragment, err)
				}
			}
		})
	}
}

func TestValidatePlanIgnoresOutputSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Destination = ""
	cfg.WavDir = ""
	cfg.Jobs = 0

	if err := cfg.ValidatePlan(testFS(t)); err != nil {
		t.Errorf("ValidatePlan() returned error: %v", err)
	}
	if err := cfg.Validate(testFS(t)); err == nil {
		t.Error("expected Validate() to reject missing output settings")
	}
}

func TestMaxClipDuration(t *testing.T) {
	cfg := validConfig()
	if got := cfg.MaxClipDuration(); got != 599.8 {
		t.Errorf("MaxClipDuration() = %v, want 599.8", got)
	}
}
