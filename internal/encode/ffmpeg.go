package encode

import (
	"context"
	"fmt"
	"io"
	"strconv"
)

var quietArgs = []string{"-hide_banner", "-loglevel", "error"}

// MP3Encoder encodes raw 16-bit little-endian PCM to MP3 with ffmpeg's
// libmp3lame.
type MP3Encoder struct {
	Runner     Runner
	FFmpeg     string
	SampleRate int
	Channels   int
}

// Encode streams pcm into a new MP3 file at dst, replacing any existing
// file.
func (e MP3Encoder) Encode(ctx context.Context, pcm io.Reader, dst string) error {
	args := append([]string{}, quietArgs...)
	args = append(args,
		"-f", "s16le",
		"-ar", strconv.Itoa(e.SampleRate),
		"-ac", strconv.Itoa(e.Channels),
		"-i", "pipe:0",
		"-c:a", "libmp3lame",
		"-q:a", "2",
		"-y", dst,
	)

	if err := e.Runner.Run(ctx, Command{Name: e.FFmpeg, Args: args, Stdin: pcm}); err != nil {
		return fmt.Errorf("failed to encode %s: %w", dst, err)
	}
	return nil
}

// OggConverter converts a wav file to Ogg Vorbis with ffmpeg's libvorbis.
type OggConverter struct {
	Runner Runner
	FFmpeg string
}

// Convert writes the Ogg Vorbis rendition of src to dst, replacing any
// existing file.
func (c OggConverter) Convert(ctx context.Context, src, dst string) error {
	args := append([]string{}, quietArgs...)
	args = append(args,
		"-nostdin",
		"-i", src,
		"-c:a", "libvorbis",
		"-qscale:a", "6",
		"-y", dst,
	)

	if err := c.Runner.Run(ctx, Command{Name: c.FFmpeg, Args: args}); err != nil {
		return fmt.Errorf("failed to convert %s: %w", src, err)
	}
	return nil
}
