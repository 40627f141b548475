// Package sampler draws next-turn infection counts from a count distribution.
package sampler

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultDispersion is the negative binomial dispersion used when a scenario
// does not set one. Lower values mean heavier superspreading tails.
const DefaultDispersion = 50.0

// Distribution produces a non-negative draw with the given mean.
type Distribution interface {
	Name() string
	Sample(rng *rand.Rand, mean float64) float64
}

// NegativeBinomial is an overdispersed count distribution parameterised by
// its mean and a fixed dispersion r, with success probability p = mean/(r+mean).
// Sampled as a gamma–Poisson mixture.
type NegativeBinomial struct {
	Dispersion float64
}

func (NegativeBinomial) Name() string { return "negbinom" }

func (nb NegativeBinomial) Sample(rng *rand.Rand, mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	r := nb.Dispersion
	if r <= 0 {
		r = DefaultDispersion
	}
	rate := gamma(rng, r) * mean / r
	return poisson(rng, rate)
}

// Poisson has variance equal to its mean.
type Poisson struct{}

func (Poisson) Name() string { return "poisson" }

func (Poisson) Sample(rng *rand.Rand, mean float64) float64 {
	return poisson(rng, mean)
}

// Fixed always returns the mean. Equivalent to a uniform draw on [mean, mean].
type Fixed struct{}

func (Fixed) Name() string { return "fixed" }

func (Fixed) Sample(_ *rand.Rand, mean float64) float64 {
	return math.Max(mean, 0)
}

// ByName returns the distribution registered under name.
func ByName(name string, dispersion float64) (Distribution, error) {
	switch name {
	case "", "negbinom":
		return NegativeBinomial{Dispersion: dispersion}, nil
	case "poisson":
		return Poisson{}, nil
	case "fixed":
		return Fixed{}, nil
	default:
		return nil, fmt.Errorf("unknown distribution %q", name)
	}
}

// gamma draws from Gamma(shape, 1) using Marsaglia and Tsang.
func gamma(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		// Boost: Gamma(a) = Gamma(a+1) * U^(1/a).
		return gamma(rng, shape+1) * math.Pow(rng.Float64(), 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// poisson draws a Poisson count. Knuth's product method for small means,
// Hörmann's transformed rejection (PTRS) above 10.
func poisson(rng *rand.Rand, mean float64) float64 {
	if mean <= 0 || math.IsNaN(mean) {
		return 0
	}
	if mean < 10 {
		limit := math.Exp(-mean)
		k := 0.0
		p := rng.Float64()
		for p > limit {
			k++
			p *= rng.Float64()
		}
		return k
	}

	slam := math.Sqrt(mean)
	loglam := math.Log(mean)
	b := 0.931 + 2.53*slam
	a := -0.059 + 0.02483*b
	invAlpha := 1.1239 + 1.1328/(b-3.4)
	vr := 0.9277 - 3.6224/(b-2)
	for {
		u := rng.Float64() - 0.5
		v := rng.Float64()
		us := 0.5 - math.Abs(u)
		k := math.Floor((2*a/us+b)*u + mean + 0.43)
		if us >= 0.07 && v <= vr {
			return k
		}
		if k < 0 || (us < 0.013 && v > us) {
			continue
		}
		lg, _ := math.Lgamma(k + 1)
		if math.Log(v)+math.Log(invAlpha)-math.Log(a/(us*us)+b) <= -mean+k*loglam-lg {
			return k
		}
	}
}
