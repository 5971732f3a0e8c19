package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const wavFormatPCM = 1

// Clip is one source sound. Clips are immutable once scanned; where a clip
// ends up in a sprite is tracked separately, keyed by ID.
type Clip struct {
	// ID is the clip's position in discovery order.
	ID int
	// Path is the file the clip was read from.
	Path string
	// Name is the path relative to the source root, with forward slashes.
	Name string

	SampleRate int
	Channels   int
	BitDepth   int
	// Frames is the number of samples per channel.
	Frames int64
}

// Duration returns the length of the clip in seconds.
func (c Clip) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(c.Frames) / float64(c.SampleRate)
}

// Rules are the format every clip must share.
type Rules struct {
	SampleRate int
	Channels   int
	// MaxDuration is the longest clip that still fits a sprite on its own.
	MaxDuration float64
}

// Catalog is the ordered set of clips found under a root directory.
type Catalog struct {
	Root  string
	Clips []Clip

	fs afero.Fs
}

// Durations returns clip durations indexed by clip ID.
func (c *Catalog) Durations() []float64 {
	out := make([]float64, len(c.Clips))
	for i, clip := range c.Clips {
		out[i] = clip.Duration()
	}
	return out
}

// Scan walks root in lexical order and probes every .wav file it finds.
// Every file is checked against rules before Scan returns; all failures are
// reported together as a joined error whose parts are *ClipError.
func Scan(ctx context.Context, fsys afero.Fs, root string, rules Rules) (*Catalog, error) {
	paths, err := findWavs(fsys, root)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoClips, root)
	}

	cat := &Catalog{Root: root, Clips: make([]Clip, 0, len(paths)), fs: fsys}
	var errs []error

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		clip, err := probe(fsys, path)
		if err != nil {
			errs = append(errs, &ClipError{Path: path, Reason: err.Error()})
			continue
		}
		clip.ID = len(cat.Clips)
		clip.Name = displayName(root, path)

		errs = append(errs, rules.check(clip)...)
		cat.Clips = append(cat.Clips, clip)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cat, nil
}

func findWavs(fsys afero.Fs, root string) ([]string, error) {
	var paths []string
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".wav") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return paths, nil
}

func displayName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), `\`, "/")
}

// probe reads just the headers of a wav file. The file is closed before
// probe returns.
func probe(fsys afero.Fs, path string) (Clip, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("could not be opened: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return Clip{}, fmt.Errorf("is not a readable wav file: %w", err)
	}
	if d.NumChans == 0 || d.SampleRate == 0 {
		return Clip{}, errors.New("is not a readable wav file")
	}
	if d.WavAudioFormat != wavFormatPCM {
		return Clip{}, fmt.Errorf("uses unsupported wav encoding %d, only integer PCM is supported", d.WavAudioFormat)
	}
	if _, err := sampleConverter(int(d.BitDepth)); err != nil {
		return Clip{}, err
	}
	if err := d.FwdToPCM(); err != nil {
		return Clip{}, fmt.Errorf("has no sample data: %w", err)
	}
	if d.PCMChunk == nil {
		return Clip{}, errors.New("has no sample data")
	}

	frameSize := int64(d.NumChans) * int64(bytesPerSample(int(d.BitDepth)))
	return Clip{
		Path:       path,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Frames:     int64(d.PCMSize) / frameSize,
	}, nil
}

func (r Rules) check(clip Clip) []error {
	var errs []error
	if clip.SampleRate != r.SampleRate {
		errs = append(errs, &ClipError{
			Path:   clip.Path,
			Reason: fmt.Sprintf("must have a sample rate of %d", r.SampleRate),
		})
	}
	if clip.Channels != r.Channels {
		reason := fmt.Sprintf("must have %d channels", r.Channels)
		if r.Channels == 1 {
			reason = "must be mono channel."
		}
		errs = append(errs, &ClipError{Path: clip.Path, Reason: reason})
	}
	if clip.Duration() > r.MaxDuration {
		errs = append(errs, &ClipError{
			Path:   clip.Path,
			Reason: fmt.Sprintf("is too long. With current parameters sound length must be shorter than %v seconds.", r.MaxDuration),
		})
	}
	return errs
}
