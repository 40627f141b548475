// Package cost maps epidemic indicators to dollar costs.
// Every function here is pure; inputs are assumed non-negative and finite.
package cost

import "math"

// Params holds the tunable constants of the cost model.
type Params struct {
	HospitalizationRate    float64 `yaml:"hospitalization_rate"`     // Fraction of infected needing a hospital bed
	CostPerHospitalization float64 `yaml:"cost_per_hospitalization"` // Dollars per hospital stay
	ValueOfStatisticalLife float64 `yaml:"value_of_statistical_life"`
	LockdownLossFraction   float64 `yaml:"lockdown_loss_fraction"` // Max fraction of daily GDP lost at full lockdown
}

// DefaultParams returns the baseline constants.
func DefaultParams() Params {
	return Params{
		HospitalizationRate:    0.1,
		CostPerHospitalization: 50_000,
		ValueOfStatisticalLife: 1e7,
		LockdownLossFraction:   0.2,
	}
}

// WithDefaults replaces an unset (all-zero) Params with DefaultParams. Any
// other Params is kept as given, so an explicit zero stays zero. Partial
// overrides from YAML start from DefaultParams before decoding.
func (p Params) WithDefaults() Params {
	if p == (Params{}) {
		return DefaultParams()
	}
	return p
}

// MedicalCost is the hospitalization bill for the given number of infected.
func MedicalCost(numInfected float64, p Params) float64 {
	return numInfected * p.HospitalizationRate * p.CostPerHospitalization
}

// DeathCost values each death at the value of a statistical life.
func DeathCost(numDead float64, p Params) float64 {
	return numDead * p.ValueOfStatisticalLife
}

// EconomicCost is the lockdown penalty for holding r below r0 over the given
// number of elapsed days. Zero once r is back at or above baseline.
func EconomicCost(r, r0, scaleFactor, daysElapsed float64) float64 {
	if r >= r0 {
		return 0
	}
	base := math.Pow(r0, 10)
	return scaleFactor * (base - math.Pow(r, 10)) / base * daysElapsed
}

// ScaleFactor converts GDP per day into the maximum daily lockdown loss.
func ScaleFactor(gdpPerDay float64, p Params) float64 {
	return gdpPerDay * p.LockdownLossFraction
}

// Breakdown is the per-category cost of one world state.
type Breakdown struct {
	Medical  float64
	Economic float64
	Death    float64
	Total    float64
}

// Model binds Params to a scenario's r0 and GDP so callers only pass state.
type Model struct {
	Params      Params
	R0          float64
	ScaleFactor float64
}

// NewModel creates a cost model for a scenario baseline.
func NewModel(p Params, r0, gdpPerDay float64) Model {
	return Model{
		Params:      p,
		R0:          r0,
		ScaleFactor: ScaleFactor(gdpPerDay, p),
	}
}

// Breakdown computes every cost category. Total is summed medical, economic,
// death in that order so callers can reproduce it exactly.
func (m Model) Breakdown(numInfected, numDead, r, daysElapsed float64) Breakdown {
	b := Breakdown{
		Medical:  MedicalCost(numInfected, m.Params),
		Economic: EconomicCost(r, m.R0, m.ScaleFactor, daysElapsed),
		Death:    DeathCost(numDead, m.Params),
	}
	b.Total = b.Medical + b.Economic + b.Death
	return b
}
