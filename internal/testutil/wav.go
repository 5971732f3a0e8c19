// Package testutil builds audio fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

// WavSpec describes a fixture file.
type WavSpec struct {
	SampleRate int
	Channels   int
	BitDepth   int
	// Samples are interleaved, in the integer range of BitDepth.
	Samples []int
}

// Mono16 is a 44.1kHz mono 16-bit fixture of the given number of frames,
// filled with a repeating ramp so the content is recognizable.
func Mono16(frames int) WavSpec {
	samples := make([]int, frames)
	for i := range samples {
		samples[i] = (i%200 - 100) * 100
	}
	return WavSpec{SampleRate: 44100, Channels: 1, BitDepth: 16, Samples: samples}
}

// Seconds is a mono 16-bit 44.1kHz fixture lasting d seconds.
func Seconds(d float64) WavSpec {
	return Mono16(int(d * 44100))
}

// WriteWav encodes spec into a wav file at path on fsys, creating parent
// directories as needed.
func WriteWav(t *testing.T, fsys afero.Fs, path string, spec WavSpec) {
	t.Helper()

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, spec.SampleRate, spec.BitDepth, spec.Channels, 1)
	buf := &audio.IntBuffer{
		Data:           spec.Samples,
		Format:         &audio.Format{NumChannels: spec.Channels, SampleRate: spec.SampleRate},
		SourceBitDepth: spec.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write samples to %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to finish %s: %v", path, err)
	}
}
