package signal

import (
	"math"
	"testing"
)

func TestResampleLengthRatio(t *testing.T) {
	tests := []struct {
		name     string
		fromRate int
		toRate   int
		inLen    int
		wantLen  int
	}{
		{"downsample 2:1", 44100, 22050, 44100, 22050},
		{"identity", 22050, 22050, 1000, 1000},
		{"upsample 1:2", 11025, 22050, 11025, 22050},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]float64, tt.inLen)
			got := Resample(in, tt.fromRate, tt.toRate)
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestResamplePreservesSineShape(t *testing.T) {
	const fromRate, toRate = 44100, 22050
	in := make([]float64, fromRate)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * 100 * float64(i) / fromRate)
	}

	out := Resample(in, fromRate, toRate)
	for i := 0; i < len(out); i += 100 {
		want := math.Sin(2 * math.Pi * 100 * float64(i) / toRate)
		if math.Abs(out[i]-want) > 0.01 {
			t.Fatalf("sample %d = %.4f, want %.4f", i, out[i], want)
		}
	}
}

func TestResampleInvalidInput(t *testing.T) {
	if got := Resample(nil, 44100, 22050); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := Resample([]float64{1}, 0, 22050); got != nil {
		t.Errorf("expected nil for zero source rate, got %v", got)
	}
}
