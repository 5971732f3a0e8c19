// Package pcm assembles sprite timelines out of raw 16-bit little-endian
// PCM streams.
package pcm

import (
	"errors"
	"io"
	"math"
)

// BytesPerSample is the width of every sample this package handles.
const BytesPerSample = 2

// FrameAt is the frame nearest to a position in seconds.
func FrameAt(seconds float64, rate int) int64 {
	if seconds <= 0 {
		return 0
	}
	return int64(math.Round(seconds * float64(rate)))
}

type silence struct {
	remaining int64
}

// Silence returns a reader producing frames of zeroed samples.
func Silence(frames int64, channels int) io.Reader {
	return &silence{remaining: frames * int64(channels) * BytesPerSample}
}

func (s *silence) Read(p []byte) (int, error) {
	if s.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > s.remaining {
		p = p[:s.remaining]
	}
	clear(p)
	s.remaining -= int64(len(p))
	return len(p), nil
}

// Track is one clip placed on a timeline, surrounded by silence.
type Track struct {
	// Open returns a fresh cursor over the clip's samples.
	Open    func() (io.ReadCloser, error)
	LeadIn  int64
	LeadOut int64
}

// Placement is a clip positioned on a stream timeline.
type Placement struct {
	Open   func() (io.ReadCloser, error)
	Frames int64
	// Start is where the clip begins, in seconds from the start of the stream.
	Start float64
}

// Layout converts placements into padded tracks for a stream of length end
// seconds. Each clip starts on the frame nearest its Start, so rounding
// never accumulates along the timeline. Placements must be in order; one
// that would overlap its predecessor starts right after it.
func Layout(clips []Placement, end float64, rate int) []Track {
	tracks := make([]Track, len(clips))
	var written int64
	for i, c := range clips {
		start := max(FrameAt(c.Start, rate), written)
		tracks[i] = Track{Open: c.Open, LeadIn: start - written}
		written = start + c.Frames
	}
	if n := len(tracks); n > 0 {
		tracks[n-1].LeadOut = max(FrameAt(end, rate)-written, 0)
	}
	return tracks
}

// Concat plays tracks back to back. Each track's source is opened only once
// the stream reaches it, and closed as soon as it is drained.
func Concat(tracks []Track, channels int) io.ReadCloser {
	return &concat{tracks: tracks, channels: channels}
}

type concat struct {
	tracks   []Track
	channels int

	// stage walks lead-in, body and lead-out of tracks[idx].
	idx    int
	stage  int
	cur    io.Reader
	source io.ReadCloser
	closed bool
}

func (c *concat) Read(p []byte) (int, error) {
	if c.closed {
		return 0, errors.New("read from closed stream")
	}
	for {
		if c.cur == nil {
			if c.idx >= len(c.tracks) {
				return 0, io.EOF
			}
			if err := c.advance(); err != nil {
				return 0, err
			}
			continue
		}

		n, err := c.cur.Read(p)
		if errors.Is(err, io.EOF) {
			if cerr := c.release(); cerr != nil {
				return n, cerr
			}
			c.cur = nil
			err = nil
		}
		if n > 0 || err != nil {
			return n, err
		}
	}
}

// advance moves to the next stage of the current track.
func (c *concat) advance() error {
	t := c.tracks[c.idx]
	switch c.stage {
	case 0:
		c.cur = Silence(t.LeadIn, c.channels)
	case 1:
		src, err := t.Open()
		if err != nil {
			return err
		}
		c.source = src
		c.cur = src
	case 2:
		c.cur = Silence(t.LeadOut, c.channels)
	}

	c.stage++
	if c.stage == 3 {
		c.stage = 0
		c.idx++
	}
	return nil
}

func (c *concat) release() error {
	if c.source == nil {
		return nil
	}
	err := c.source.Close()
	c.source = nil
	return err
}

func (c *concat) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.cur = nil
	return c.release()
}
