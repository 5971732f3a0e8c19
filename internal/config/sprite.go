package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glizzus/audiospriter/internal/sprite"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/afero"
)

// ErrInvalidConfig wraps every problem reported by SpriteConfig.Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

type SpriteConfig struct {
	Source         string        `env:"AUDIOSPRITER_SOURCE"`
	Destination    string        `env:"AUDIOSPRITER_DESTINATION"`
	WavDir         string        `env:"AUDIOSPRITER_WAV_DIR, default=./wav-audiosprites"`
	BaseName       string        `env:"AUDIOSPRITER_BASE_NAME, default=audioSprite"`
	MaxDuration    float64       `env:"AUDIOSPRITER_MAX_DURATION, default=600"`
	Spacing        float64       `env:"AUDIOSPRITER_SPACING, default=0.1"`
	SampleRate     int           `env:"AUDIOSPRITER_SAMPLE_RATE, default=44100"`
	Channels       int           `env:"AUDIOSPRITER_CHANNELS, default=1"`
	FFmpegPath     string        `env:"AUDIOSPRITER_FFMPEG, default=ffmpeg"`
	ConvertTimeout time.Duration `env:"AUDIOSPRITER_CONVERT_TIMEOUT, default=10m"`
	Jobs           int           `env:"AUDIOSPRITER_JOBS, default=1"`
	Verify         bool          `env:"AUDIOSPRITER_VERIFY, default=true"`
}

func NewSpriteConfigFromEnv() (*SpriteConfig, error) {
	var cfg SpriteConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MaxClipDuration is the longest clip that still fits alone in a sprite,
// leaving room for the leading and trailing spacing.
func (c *SpriteConfig) MaxClipDuration() float64 {
	return c.MaxDuration - c.Spacing*2
}

// Validate checks every setting a build needs and reports all problems at
// once. Directory checks go through fs so they can run against an in-memory
// tree.
func (c *SpriteConfig) Validate(fs afero.Fs) error {
	return c.validate(fs, true)
}

// ValidatePlan is Validate without the output settings, for runs that only
// compute the packing.
func (c *SpriteConfig) ValidatePlan(fs afero.Fs) error {
	return c.validate(fs, false)
}

func (c *SpriteConfig) validate(fs afero.Fs, output bool) error {
	var errs []error
	addf := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.Source == "" {
		addf("must specify source with -s ./sourceDirectory")
	} else if ok, _ := afero.DirExists(fs, c.Source); !ok {
		addf("source directory %s doesn't exist", c.Source)
	}

	if output {
		if c.Destination == "" {
			addf("must specify destination with -d ./outputDirectory")
		} else if ok, _ := afero.DirExists(fs, c.Destination); !ok {
			addf("destination directory %s doesn't exist", c.Destination)
		}
		if c.WavDir == "" {
			addf("must have a valid directory to place .wav versions of the audio sprites")
		}
		if c.BaseName == "" {
			addf("base name must not be empty")
		}
		if c.Jobs < 1 {
			addf("jobs must be at least 1, got %d", c.Jobs)
		}
		if c.FFmpegPath == "" {
			addf("ffmpeg path must not be empty")
		}
	}

	if err := sprite.ValidateSpacing(c.Spacing, sprite.Encodings...); err != nil {
		addf("%v", err)
	}
	if c.MaxClipDuration() <= 0 {
		addf("max sprite duration %v leaves no room for sounds with spacing %v", c.MaxDuration, c.Spacing)
	}

	if c.SampleRate <= 0 {
		addf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		addf("channel count must be positive, got %d", c.Channels)
	}

	return errors.Join(errs...)
}
