package sampler

import (
	"math"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMean(t *testing.T, d Distribution, mean float64, n int) (float64, float64) {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	sum, sumSq := 0.0, 0.0
	for i := 0; i < n; i++ {
		x := d.Sample(rng, mean)
		require.GreaterOrEqual(t, x, 0.0)
		require.Equal(t, math.Floor(x), x, "draw must be an integer count")
		sum += x
		sumSq += x * x
	}
	m := sum / float64(n)
	return m, sumSq/float64(n) - m*m
}

func TestPoissonSmallMean(t *testing.T) {
	m, v := sampleMean(t, Poisson{}, 3, 20000)
	assert.InDelta(t, 3, m, 0.1)
	assert.InDelta(t, 3, v, 0.3)
}

func TestPoissonLargeMean(t *testing.T) {
	m, v := sampleMean(t, Poisson{}, 1000, 20000)
	assert.InDelta(t, 1000, m, 2)
	assert.InDelta(t, 1000, v, 80)
}

func TestNegativeBinomialIsOverdispersed(t *testing.T) {
	m, v := sampleMean(t, NegativeBinomial{Dispersion: 50}, 100, 20000)
	assert.InDelta(t, 100, m, 1.5)
	// Var = mean + mean^2/r = 300.
	assert.Greater(t, v, 200.0)
	assert.Less(t, v, 400.0)
}

func TestNegativeBinomialZeroMean(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, 0.0, NegativeBinomial{}.Sample(rng, 0))
	assert.Equal(t, 0.0, NegativeBinomial{}.Sample(rng, -4))
}

func TestFixedReturnsMean(t *testing.T) {
	assert.Equal(t, 12.5, Fixed{}.Sample(nil, 12.5))
	assert.Equal(t, 0.0, Fixed{}.Sample(nil, -1))
}

func TestByName(t *testing.T) {
	d, err := ByName("", 20)
	require.NoError(t, err)
	assert.Equal(t, NegativeBinomial{Dispersion: 20}, d)

	d, err = ByName("poisson", 0)
	require.NoError(t, err)
	assert.Equal(t, "poisson", d.Name())

	d, err = ByName("fixed", 0)
	require.NoError(t, err)
	assert.Equal(t, "fixed", d.Name())

	_, err = ByName("binomial", 0)
	assert.Error(t, err)
}

func TestExpected(t *testing.T) {
	assert.Equal(t, 100.5, Expected(100, 1, 0.5))
	assert.Equal(t, 3.0, Expected(0, 4, 3))
}

func TestGeneratorFixedIsDeterministic(t *testing.T) {
	g := NewGenerator(Fixed{}, 1000, nil)
	assert.Equal(t, 100, g.Sample(100, 1.0, 0.5))
	assert.Equal(t, 1000, g.Sample(100, 40, 0), "clamped to population")
}

func TestGeneratorStaysInBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("sample is within [0, population]", prop.ForAll(
		func(prev, population int, r, imported float64, seed int64) bool {
			g := NewGenerator(nil, population, rand.New(rand.NewSource(seed)))
			n := g.Sample(prev, r, imported)
			return n >= 0 && n <= population
		},
		gen.IntRange(0, 10000),
		gen.IntRange(0, 10000),
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 100),
		gen.Int64(),
	))
	properties.TestingRun(t)
}

func TestGeneratorMeanTracksLambda(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := NewGenerator(Poisson{}, 1_000_000, rng)
	avg := func(r float64) float64 {
		total := 0
		for i := 0; i < 4000; i++ {
			total += g.Sample(100, r, 0)
		}
		return float64(total) / 4000
	}
	low, high := avg(0.5), avg(2)
	assert.InDelta(t, 50, low, 1)
	assert.InDelta(t, 200, high, 2)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(12, 0, 10))
	assert.Equal(t, 2.5, Clamp(2.5, 0.0, 10.0))
}
