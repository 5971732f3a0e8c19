// Package build runs the sprite pipeline: scan the source clips, pack them,
// render every sprite in each encoding, then describe the result.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/glizzus/audiospriter/internal/catalog"
	"github.com/glizzus/audiospriter/internal/config"
	"github.com/glizzus/audiospriter/internal/datalayer"
	"github.com/glizzus/audiospriter/internal/encode"
	"github.com/glizzus/audiospriter/internal/generator"
	"github.com/glizzus/audiospriter/internal/manifest"
	"github.com/glizzus/audiospriter/internal/sprite"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// Builder holds everything a run needs. Prober and Publisher are optional.
type Builder struct {
	FS     afero.Fs
	Config *config.SpriteConfig
	Runner encode.Runner
	// Prober checks every encoded file when Config.Verify is set.
	Prober encode.Prober
	// Publisher uploads the finished files after the metadata is written.
	Publisher *datalayer.Publisher
	Logger    *slog.Logger
	// RunIDs names each run in logs; random UUIDs when nil.
	RunIDs generator.Generator[string]
}

// Output lists the files written for one sprite.
type Output struct {
	Group int
	MP3   string
	OGG   string
	WAV   string
}

// Result describes a run.
type Result struct {
	RunID    string
	Catalog  *catalog.Catalog
	Plan     sprite.Plan
	Document manifest.Document
	Outputs  []Output
	// Manifest is the path of the metadata file, empty for a plan.
	Manifest  string
	Published []string
}

func (b *Builder) start() (*Result, *slog.Logger, error) {
	ids := b.RunIDs
	if ids == nil {
		ids = &generator.UUIDV4Generator{}
	}
	id, err := ids.Next()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate run ID: %w", err)
	}
	return &Result{RunID: id}, b.logger().With("runID", id), nil
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// Plan scans and packs the source clips without encoding anything.
func (b *Builder) Plan(ctx context.Context) (*Result, error) {
	if err := b.Config.ValidatePlan(b.FS); err != nil {
		return nil, err
	}
	res, logger, err := b.start()
	if err != nil {
		return nil, err
	}
	if err := b.pack(ctx, res, logger); err != nil {
		return nil, err
	}
	return res, nil
}

// Run builds every sprite and writes the metadata file. The metadata is
// only written once every sprite has been encoded, so a failed run never
// leaves a document pointing at missing or partial files.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	if err := b.Config.Validate(b.FS); err != nil {
		return nil, err
	}

	res, logger, err := b.start()
	if err != nil {
		return nil, err
	}
	if err := b.pack(ctx, res, logger); err != nil {
		return nil, err
	}

	if err := b.FS.MkdirAll(b.Config.WavDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create wav directory %s: %w", b.Config.WavDir, err)
	}

	res.Outputs = make([]Output, len(res.Plan.Groups))
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(b.Config.Jobs)
	for _, g := range res.Plan.Groups {
		p.Go(func(ctx context.Context) error {
			out, err := b.renderGroup(ctx, res.Catalog, res.Plan.Assignments, g, logger)
			if err != nil {
				return fmt.Errorf("sprite %d: %w", g.Index, err)
			}
			res.Outputs[g.Index] = out
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	res.Document = manifest.Build(res.Catalog, res.Plan, b.Config.BaseName)
	path, err := manifest.Write(b.FS, b.Config.Destination, res.Document)
	if err != nil {
		return nil, err
	}
	res.Manifest = path
	logger.Info("wrote metadata", "path", path, "sprites", len(res.Outputs), "sounds", len(res.Document.Sounds))

	if b.Publisher != nil {
		keys, err := b.Publisher.Publish(ctx, res.files()...)
		res.Published = keys
		if err != nil {
			return res, err
		}
		logger.Info("published sprites", "objects", len(keys))
	}

	logger.Info("completed with no errors")
	return res, nil
}

func (b *Builder) pack(ctx context.Context, res *Result, logger *slog.Logger) error {
	rules := catalog.Rules{
		SampleRate:  b.Config.SampleRate,
		Channels:    b.Config.Channels,
		MaxDuration: b.Config.MaxClipDuration(),
	}
	cat, err := catalog.Scan(ctx, b.FS, b.Config.Source, rules)
	if err != nil {
		return err
	}
	res.Catalog = cat
	res.Plan = sprite.Pack(cat.Durations(), b.Config.Spacing, b.Config.MaxDuration)

	logger.Info("packed sounds", "sounds", len(cat.Clips), "sprites", len(res.Plan.Groups))
	return nil
}

// files lists every published artifact, metadata last.
func (r *Result) files() []string {
	files := make([]string, 0, 2*len(r.Outputs)+1)
	for _, out := range r.Outputs {
		files = append(files, out.MP3, out.OGG)
	}
	return append(files, r.Manifest)
}

// ErrIncompleteOutput is returned when an encoded file does not hold the
// whole sprite.
var ErrIncompleteOutput = errors.New("encoded sprite is incomplete")

func (b *Builder) outputPaths(index int) Output {
	name := func(ext string) string { return manifest.FileName(b.Config.BaseName, index, ext) }
	return Output{
		Group: index,
		MP3:   filepath.Join(b.Config.Destination, name(sprite.MP3.Ext)),
		OGG:   filepath.Join(b.Config.Destination, name(sprite.OGG.Ext)),
		WAV:   filepath.Join(b.Config.WavDir, name(".wav")),
	}
}
