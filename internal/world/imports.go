package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// ImportDriver modulates the baseline imported-case rate over time with
// smooth fractal noise, so travel pressure drifts in seasons instead of
// jumping turn to turn.
type ImportDriver struct {
	Amplitude float64 // 0 disables modulation; 1 swings between 0 and 2x baseline
	Period    float64 // Days per noise unit

	noise opensimplex.Noise
}

// NewImportDriver creates a seeded driver. Amplitude is clamped to [0, 1].
func NewImportDriver(seed int64, amplitude float64) *ImportDriver {
	if amplitude < 0 {
		amplitude = 0
	}
	if amplitude > 1 {
		amplitude = 1
	}
	return &ImportDriver{
		Amplitude: amplitude,
		Period:    90,
		noise:     opensimplex.NewNormalized(seed),
	}
}

// ImportedCases returns the modulated imported cases per day at the given day.
func (d *ImportDriver) ImportedCases(baseline float64, day int) float64 {
	if d == nil || d.Amplitude == 0 {
		return baseline
	}
	n := seasonalNoise(d.noise, float64(day)/d.Period, 3, 1.0, 0.5)
	return baseline * (1 + d.Amplitude*(2*n-1))
}

// seasonalNoise layers octaves of normalized noise along a single time axis.
// The result stays in [0, 1].
func seasonalNoise(noise opensimplex.Noise, t float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(t*frequency, 0) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
