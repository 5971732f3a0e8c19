package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/glizzus/audiospriter/internal/catalog"
	"github.com/glizzus/audiospriter/internal/encode"
	"github.com/glizzus/audiospriter/internal/pcm"
	"github.com/glizzus/audiospriter/internal/sprite"
	"github.com/sourcegraph/conc/pool"
)

// mp3FrameSamples is the number of samples in one MPEG-1 Layer III frame.
const mp3FrameSamples = 1152

// renderGroup writes both encodings of one sprite. The two encodings read
// the clips through their own cursors and run side by side.
func (b *Builder) renderGroup(ctx context.Context, cat *catalog.Catalog, assignments []sprite.Assignment, g sprite.Group, logger *slog.Logger) (Output, error) {
	out := b.outputPaths(g.Index)
	logger = logger.With("group", g.Index)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		return b.renderMP3(ctx, cat, g, out.MP3)
	})
	p.Go(func(ctx context.Context) error {
		return b.renderOgg(ctx, cat, g, out.WAV, out.OGG)
	})
	if err := p.Wait(); err != nil {
		return out, err
	}

	if b.Config.Verify && b.Prober != nil {
		if err := b.verify(g, out); err != nil {
			return out, err
		}
	}

	logger.Info("wrote sprite", "mp3", out.MP3, "ogg", out.OGG, "length", g.Length)
	for _, id := range g.Clips {
		logger.Info("placed sound",
			"sound", cat.Clips[id].Name,
			"start", assignments[id].Start,
			"duration", cat.Clips[id].Duration(),
		)
	}
	return out, nil
}

// tracks lays the clips of g out on the stream fed to the enc encoder. The
// stream begins StartDelay seconds before the decoded audio, so every clip
// is heard at its packed start.
func (b *Builder) tracks(cat *catalog.Catalog, g sprite.Group, enc sprite.Encoding) []pcm.Track {
	durations := make([]float64, len(g.Clips))
	for i, id := range g.Clips {
		durations[i] = cat.Clips[id].Duration()
	}
	pads := sprite.Paddings(len(g.Clips), b.Config.Spacing, enc)
	starts := sprite.PlaybackStarts(durations, pads, enc)

	clips := make([]pcm.Placement, len(g.Clips))
	for i, id := range g.Clips {
		clips[i] = pcm.Placement{
			Open:   func() (io.ReadCloser, error) { return cat.Open(id) },
			Frames: cat.Clips[id].Frames,
			Start:  starts[i] - enc.StartDelay,
		}
	}
	end := sprite.EncodedLength(durations, pads, enc) - enc.StartDelay
	return pcm.Layout(clips, end, b.Config.SampleRate)
}

func (b *Builder) renderMP3(ctx context.Context, cat *catalog.Catalog, g sprite.Group, dst string) error {
	stream := pcm.Concat(b.tracks(cat, g, sprite.MP3), b.Config.Channels)
	defer stream.Close()

	enc := encode.MP3Encoder{
		Runner:     b.Runner,
		FFmpeg:     b.Config.FFmpegPath,
		SampleRate: b.Config.SampleRate,
		Channels:   b.Config.Channels,
	}
	return enc.Encode(ctx, stream, dst)
}

func (b *Builder) renderOgg(ctx context.Context, cat *catalog.Catalog, g sprite.Group, wavPath, dst string) error {
	if err := b.writeWAV(cat, g, wavPath); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	conv := encode.OggConverter{Runner: b.Runner, FFmpeg: b.Config.FFmpegPath}
	return conv.Convert(ctx, wavPath, dst)
}

func (b *Builder) writeWAV(cat *catalog.Catalog, g sprite.Group, path string) error {
	stream := pcm.Concat(b.tracks(cat, g, sprite.OGG), b.Config.Channels)
	defer stream.Close()

	f, err := b.FS.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := pcm.WriteWAV(f, stream, b.Config.SampleRate, b.Config.Channels); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (b *Builder) verify(g sprite.Group, out Output) error {
	got, err := b.Prober.MP3Duration(out.MP3)
	if err != nil {
		return err
	}
	minimum := g.Length - float64(mp3FrameSamples)/float64(b.Config.SampleRate)
	if got < minimum {
		return fmt.Errorf("%w: %s decodes to %.3fs, expected at least %.3fs", ErrIncompleteOutput, out.MP3, got, minimum)
	}

	packets, err := b.Prober.OggPackets(out.OGG)
	if err != nil {
		return err
	}
	// A vorbis stream carries three header packets before any audio.
	if packets <= 3 {
		return fmt.Errorf("%w: %s holds %d packets", ErrIncompleteOutput, out.OGG, packets)
	}
	return nil
}
