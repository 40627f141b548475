package sampler

import (
	"math"
	"math/rand"

	"golang.org/x/exp/constraints"
)

// Generator turns the current infected count and an effective reproduction
// number into the next turn's infected count.
type Generator struct {
	Dist       Distribution
	Population int

	rng *rand.Rand
}

// NewGenerator creates a generator bounded by population. A nil dist means
// the default negative binomial.
func NewGenerator(dist Distribution, population int, rng *rand.Rand) *Generator {
	if dist == nil {
		dist = NegativeBinomial{Dispersion: DefaultDispersion}
	}
	return &Generator{Dist: dist, Population: population, rng: rng}
}

// Expected is the mean of the next-turn count. Everyone is treated as
// susceptible.
func Expected(prevInfected int, effectiveR, importedCasesPerDay float64) float64 {
	const fractionSusceptible = 1.0
	return float64(prevInfected)*effectiveR*fractionSusceptible + importedCasesPerDay
}

// Sample draws the next infected count, floored and clamped to [0, Population].
func (g *Generator) Sample(prevInfected int, effectiveR, importedCasesPerDay float64) int {
	lambda := Expected(prevInfected, effectiveR, importedCasesPerDay)
	draw := g.Dist.Sample(g.rng, lambda)
	if math.IsNaN(draw) {
		return 0
	}
	return int(Clamp(math.Floor(draw), 0, float64(g.Population)))
}

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
