package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const writeChunkFrames = 4096

// WriteWAV encodes the 16-bit PCM stream r into a wav container on w and
// returns the number of frames written. A trailing partial frame is dropped.
// w is not closed.
func WriteWAV(w io.WriteSeeker, r io.Reader, rate, channels int) (int64, error) {
	enc := wav.NewEncoder(w, rate, 16, channels, 1)

	frameBytes := channels * BytesPerSample
	raw := make([]byte, writeChunkFrames*frameBytes)
	buf := &audio.IntBuffer{
		Data:           make([]int, 0, writeChunkFrames*channels),
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: 16,
	}

	var frames int64
	wrote := false
	for {
		n, err := io.ReadFull(r, raw)
		done := errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
		if err != nil && !done {
			return frames, fmt.Errorf("failed to read samples: %w", err)
		}

		n -= n % frameBytes
		if n > 0 || !wrote {
			buf.Data = buf.Data[:0]
			for i := 0; i < n; i += BytesPerSample {
				buf.Data = append(buf.Data, int(int16(binary.LittleEndian.Uint16(raw[i:]))))
			}
			if err := enc.Write(buf); err != nil {
				return frames, fmt.Errorf("failed to encode samples: %w", err)
			}
			wrote = true
			frames += int64(n / frameBytes)
		}

		if done {
			break
		}
	}

	if err := enc.Close(); err != nil {
		return frames, fmt.Errorf("failed to finalize wav: %w", err)
	}
	return frames, nil
}
