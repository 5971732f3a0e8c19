package encode

import (
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/jonas747/ogg"
	"github.com/spf13/afero"
)

// ProbeMP3 decodes the MP3 stream in r and returns its length in seconds.
func ProbeMP3(r io.ReadSeeker) (float64, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, fmt.Errorf("failed to decode mp3: %w", err)
	}
	length := d.Length()
	if length < 0 {
		return 0, errors.New("mp3 length is unknown")
	}
	// go-mp3 always decodes to 16-bit stereo.
	return float64(length) / 4 / float64(d.SampleRate()), nil
}

// ProbeOgg counts the packets of the Ogg stream in r.
func ProbeOgg(r io.Reader) (int, error) {
	decoder := ogg.NewPacketDecoder(ogg.NewDecoder(r))

	packets := 0
	for {
		_, _, err := decoder.Decode()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return packets, nil
			}
			return packets, fmt.Errorf("failed to decode ogg: %w", err)
		}
		packets++
	}
}

// Prober inspects finished sprite files.
type Prober interface {
	// MP3Duration returns the decoded length of the file in seconds.
	MP3Duration(path string) (float64, error)
	// OggPackets returns the number of packets in the file.
	OggPackets(path string) (int, error)
}

// FileProber probes files on a filesystem.
type FileProber struct {
	FS afero.Fs
}

func (p FileProber) MP3Duration(path string) (float64, error) {
	f, err := p.FS.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	d, err := ProbeMP3(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func (p FileProber) OggPackets(path string) (int, error) {
	f, err := p.FS.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	n, err := ProbeOgg(f)
	if err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
