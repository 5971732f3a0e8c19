package sprite_test

import (
	"testing"

	"github.com/glizzus/audiospriter/internal/sprite"
	"github.com/google/go-cmp/cmp"
)

func TestPaddings(t *testing.T) {
	tests := []struct {
		name string
		n    int
		enc  sprite.Encoding
		want []sprite.Padding
	}{
		{
			name: "single clip mp3",
			n:    1,
			enc:  sprite.MP3,
			want: []sprite.Padding{{LeadIn: 0.0731, LeadOut: 0.1}},
		},
		{
			name: "single clip ogg",
			n:    1,
			enc:  sprite.OGG,
			want: []sprite.Padding{{LeadIn: 0.1, LeadOut: 0.1}},
		},
		{
			name: "three clips mp3",
			n:    3,
			enc:  sprite.MP3,
			want: []sprite.Padding{
				{LeadIn: 0.0731},
				{LeadIn: 0.1},
				{LeadIn: 0.1, LeadOut: 0.1},
			},
		},
		{
			name: "three clips ogg",
			n:    3,
			enc:  sprite.OGG,
			want: []sprite.Padding{
				{LeadIn: 0.1},
				{LeadIn: 0.1},
				{LeadIn: 0.1, LeadOut: 0.1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sprite.Paddings(tt.n, 0.1, tt.enc)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Paddings() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlaybackStartsAgreeAcrossEncodings(t *testing.T) {
	const spacing = 0.1

	for seed := uint64(1); seed <= 10; seed++ {
		durations := randomDurations(seed, 60, 9.8)
		plan := sprite.Pack(durations, spacing, 30)

		for _, g := range plan.Groups {
			clipDurations := make([]float64, len(g.Clips))
			want := make([]float64, len(g.Clips))
			for i, id := range g.Clips {
				clipDurations[i] = durations[id]
				want[i] = plan.Assignments[id].Start
			}

			for _, enc := range sprite.Encodings {
				pads := sprite.Paddings(len(g.Clips), spacing, enc)
				got := sprite.PlaybackStarts(clipDurations, pads, enc)
				if diff := cmp.Diff(want, got, approx); diff != "" {
					t.Errorf("seed %d sprite %d %s: starts mismatch (-packed +played):\n%s", seed, g.Index, enc.Name, diff)
				}

				if length := sprite.EncodedLength(clipDurations, pads, enc); !cmp.Equal(length, g.Length, approx) {
					t.Errorf("seed %d sprite %d %s: encoded length %v, sprite length %v", seed, g.Index, enc.Name, length, g.Length)
				}
			}
		}
	}
}

func TestValidateSpacing(t *testing.T) {
	tests := []struct {
		spacing float64
		wantErr bool
	}{
		{spacing: 0.1, wantErr: false},
		{spacing: 0.027, wantErr: false},
		{spacing: 0.0269, wantErr: true},
		{spacing: 0.01, wantErr: true},
		{spacing: 0, wantErr: true},
	}

	for _, tt := range tests {
		err := sprite.ValidateSpacing(tt.spacing, sprite.Encodings...)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSpacing(%v) error = %v, wantErr %v", tt.spacing, err, tt.wantErr)
		}
	}
}
