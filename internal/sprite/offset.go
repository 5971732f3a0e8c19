package sprite

import "fmt"

// Encoding is one of the output formats every sprite is written in.
type Encoding struct {
	Name string
	Ext  string
	// StartDelay is the fixed silence the encoder adds in front of the first
	// decoded sample, in seconds.
	StartDelay float64
}

var (
	// MP3 output carries the encoder's priming delay. The value is measured,
	// and is not exactly 1056 samples at 44.1kHz.
	MP3 = Encoding{Name: "mp3", Ext: ".mp3", StartDelay: 0.0269}
	// OGG output starts playing at the first sample.
	OGG = Encoding{Name: "ogg", Ext: ".ogg"}

	Encodings = []Encoding{MP3, OGG}
)

// Padding is the silence around one clip in an encoded sprite, in seconds.
type Padding struct {
	LeadIn  float64
	LeadOut float64
}

// ValidateSpacing reports an error when spacing does not leave room to
// absorb the start delay of every encoding.
func ValidateSpacing(spacing float64, encodings ...Encoding) error {
	for _, enc := range encodings {
		if spacing <= enc.StartDelay {
			return fmt.Errorf("spacing duration must be longer than %v (%s start delay), got %v", enc.StartDelay, enc.Name, spacing)
		}
	}
	return nil
}

// Paddings returns the silence to place around each of the n clips of a
// sprite written in enc. Every clip is preceded by spacing, except that the
// first lead-in is shortened by the encoder's start delay, and the last clip
// is followed by spacing.
func Paddings(n int, spacing float64, enc Encoding) []Padding {
	pads := make([]Padding, n)
	for i := range pads {
		pads[i].LeadIn = spacing
		if i == 0 {
			pads[i].LeadIn = spacing - enc.StartDelay
		}
		if i == n-1 {
			pads[i].LeadOut = spacing
		}
	}
	return pads
}

// PlaybackStarts returns when each clip becomes audible when the sprite is
// decoded from enc, accounting for the encoder's start delay. For paddings
// built by Paddings these equal the starts recorded by Pack.
func PlaybackStarts(durations []float64, pads []Padding, enc Encoding) []float64 {
	starts := make([]float64, len(durations))
	at := enc.StartDelay
	for i, d := range durations {
		at += pads[i].LeadIn
		starts[i] = at
		at += d + pads[i].LeadOut
	}
	return starts
}

// EncodedLength is the length of the decoded sprite including the encoder's
// start delay.
func EncodedLength(durations []float64, pads []Padding, enc Encoding) float64 {
	total := enc.StartDelay
	for i, d := range durations {
		total += pads[i].LeadIn + d + pads[i].LeadOut
	}
	return total
}
