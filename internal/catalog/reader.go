package catalog

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const readChunkSamples = 4096

// Open returns an independent read cursor over a clip's samples as
// interleaved 16-bit little-endian PCM. A clip can be opened any number of
// times; each cursor holds its own file handle, released by Close.
func (c *Catalog) Open(id int) (io.ReadCloser, error) {
	if id < 0 || id >= len(c.Clips) {
		return nil, fmt.Errorf("clip %d is not in the catalog", id)
	}
	clip := c.Clips[id]

	conv, err := sampleConverter(clip.BitDepth)
	if err != nil {
		return nil, fmt.Errorf("%s %w", clip.Path, err)
	}

	f, err := c.fs.Open(clip.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", clip.Path, err)
	}

	d := wav.NewDecoder(f)
	if err := d.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to find sample data in %s: %w", clip.Path, err)
	}
	if err := d.Err(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read %s: %w", clip.Path, err)
	}

	return &pcmReader{
		f:         f,
		d:         d,
		conv:      conv,
		remaining: clip.Frames * int64(clip.Channels),
		buf: &audio.IntBuffer{
			Data:   make([]int, readChunkSamples),
			Format: &audio.Format{NumChannels: clip.Channels, SampleRate: clip.SampleRate},
		},
		out: make([]byte, 0, readChunkSamples*2),
	}, nil
}

type pcmReader struct {
	f    afero.File
	d    *wav.Decoder
	conv func(int) int16

	// remaining caps the output at the sample count computed when the clip
	// was scanned, so a chunk pad byte never turns into a sample.
	remaining int64
	buf       *audio.IntBuffer
	out       []byte
	pending   []byte
	err       error
}

func (r *pcmReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		r.fill()
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *pcmReader) fill() {
	if r.remaining <= 0 {
		r.err = io.EOF
		return
	}

	n, err := r.d.PCMBuffer(r.buf)
	if err != nil {
		r.err = err
		return
	}
	if n <= 0 {
		r.err = io.EOF
		return
	}
	if int64(n) > r.remaining {
		n = int(r.remaining)
	}
	r.remaining -= int64(n)

	r.out = r.out[:0]
	for _, v := range r.buf.Data[:n] {
		r.out = binary.LittleEndian.AppendUint16(r.out, uint16(r.conv(v)))
	}
	r.pending = r.out
}

func (r *pcmReader) Close() error {
	return r.f.Close()
}

// sampleConverter scales decoded integer samples of the given bit depth to
// 16 bits.
func sampleConverter(bitDepth int) (func(int) int16, error) {
	switch bitDepth {
	case 8:
		// 8-bit wav samples are unsigned.
		return func(v int) int16 { return int16((v - 128) << 8) }, nil
	case 16:
		return func(v int) int16 { return int16(v) }, nil
	case 24:
		return func(v int) int16 { return int16(v >> 8) }, nil
	case 32:
		return func(v int) int16 { return int16(v >> 16) }, nil
	default:
		return nil, fmt.Errorf("has unsupported bit depth %d", bitDepth)
	}
}

func bytesPerSample(bitDepth int) int {
	return (bitDepth-1)/8 + 1
}
