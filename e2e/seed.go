// Package e2e runs the whole pipeline against the real ffmpeg binary.
package e2e

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/glizzus/audiospriter/internal/testutil"
	"github.com/spf13/afero"
)

// RequireFFmpeg returns the ffmpeg on PATH, skipping the test when there is
// none.
func RequireFFmpeg(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg is not installed")
	}
	return path
}

// Sound is one seeded clip.
type Sound struct {
	Name   string
	Frames int
}

// SeedSounds writes mono 44.1kHz clips under a fresh directory and returns
// it.
func SeedSounds(t *testing.T, sounds ...Sound) string {
	t.Helper()
	dir := t.TempDir()
	fs := afero.NewOsFs()
	for _, s := range sounds {
		testutil.WriteWav(t, fs, filepath.Join(dir, filepath.FromSlash(s.Name)), testutil.Mono16(s.Frames))
	}
	return dir
}
