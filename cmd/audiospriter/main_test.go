package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/glizzus/audiospriter/internal/config"
	"github.com/glizzus/audiospriter/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestPlanCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	fs := afero.NewOsFs()
	src := t.TempDir()
	testutil.WriteWav(t, fs, filepath.Join(src, "a.wav"), testutil.Mono16(13230))
	testutil.WriteWav(t, fs, filepath.Join(src, "b.wav"), testutil.Mono16(13230))
	testutil.WriteWav(t, fs, filepath.Join(src, "ui", "c.wav"), testutil.Mono16(22050))

	var stdout, stderr bytes.Buffer
	app := newApp(fs)
	app.Writer = &stdout
	app.ErrWriter = &stderr

	if err := app.Run([]string{"audiospriter", "plan", "-s", src, "--max", "1"}); err != nil {
		t.Fatalf("plan failed: %v\n%s", err, stderr.String())
	}

	want := `audioSprite_0 (0.900s)
  a.wav start 0.100 duration 0.300
  b.wav start 0.500 duration 0.300
audioSprite_1 (0.700s)
  ui/c.wav start 0.100 duration 0.500
`
	if diff := cmp.Diff(want, stdout.String()); diff != "" {
		t.Errorf("plan output mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCommandValidatesFirst(t *testing.T) {
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	app := newApp(afero.NewOsFs())
	app.Writer = &stdout
	app.ErrWriter = &stderr

	err := app.Run([]string{"audiospriter", "build", "-s", "/does/not/exist"})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
