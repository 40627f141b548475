// Package scenario defines the immutable game configuration: population,
// disease parameters, the policy catalog, random events and victory conditions.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/talgya/outbreak/internal/cost"
	"github.com/talgya/outbreak/internal/sampler"
)

// ErrInvalidScenario wraps every configuration error.
var ErrInvalidScenario = errors.New("invalid scenario")

// DefaultDaysPerTurn is the turn length used when a scenario leaves it unset.
const DefaultDaysPerTurn = 10

// Scenario is read once at engine construction and never mutated.
type Scenario struct {
	Name                string  `yaml:"name"`
	TotalPopulation     int     `yaml:"total_population"`
	InitialNumInfected  int     `yaml:"initial_num_infected"`
	R0                  float64 `yaml:"r0"`
	Mortality           float64 `yaml:"mortality"` // Death rate applied to the lagged infected count
	HospitalCapacity    float64 `yaml:"hospital_capacity"`
	ImportedCasesPerDay float64 `yaml:"imported_cases_per_day"`
	GDPPerDay           float64 `yaml:"gdp_per_day"`
	DaysPerTurn         int     `yaml:"days_per_turn"`
	CaseDispersion      float64 `yaml:"case_dispersion"`
	ImportSeasonality   float64 `yaml:"import_seasonality"` // 0..1 amplitude of seasonal import drift

	Costs cost.Params `yaml:"costs"`

	ContainmentPolicies    []ContainmentPolicy     `yaml:"containment_policies"`
	CapabilityImprovements []CapabilityImprovement `yaml:"capability_improvements"`
	RandomEvents           []RandomEvent           `yaml:"random_events"`
	VictoryConditions      []VictoryCondition      `yaml:"victory_conditions"`
}

// WithDefaults fills unset tunables. DaysPerTurn and CaseDispersion have no
// meaningful zero, so zero means unset. Costs are defaulted only when the
// whole block is unset.
func (s Scenario) WithDefaults() Scenario {
	if s.DaysPerTurn == 0 {
		s.DaysPerTurn = DefaultDaysPerTurn
	}
	if s.CaseDispersion == 0 {
		s.CaseDispersion = sampler.DefaultDispersion
	}
	s.Costs = s.Costs.WithDefaults()
	return s
}

// CostModel binds the scenario's cost params to its baseline.
func (s Scenario) CostModel() cost.Model {
	return cost.NewModel(s.Costs, s.R0, s.GDPPerDay)
}

// Validate reports the first configuration error, wrapped in ErrInvalidScenario.
func (s Scenario) Validate() error {
	if err := s.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return nil
}

func (s Scenario) validate() error {
	switch {
	case s.TotalPopulation <= 0:
		return fmt.Errorf("total population must be positive, got %d", s.TotalPopulation)
	case s.InitialNumInfected < 0 || s.InitialNumInfected > s.TotalPopulation:
		return fmt.Errorf("initial infected %d outside [0, %d]", s.InitialNumInfected, s.TotalPopulation)
	case !(s.R0 > 0) || math.IsInf(s.R0, 0):
		return fmt.Errorf("r0 must be positive and finite, got %v", s.R0)
	case !(s.Mortality >= 0 && s.Mortality <= 1):
		return fmt.Errorf("mortality must be in [0, 1], got %v", s.Mortality)
	case !(s.HospitalCapacity >= 0):
		return fmt.Errorf("hospital capacity must be non-negative, got %v", s.HospitalCapacity)
	case !(s.ImportedCasesPerDay >= 0):
		return fmt.Errorf("imported cases must be non-negative, got %v", s.ImportedCasesPerDay)
	case !(s.GDPPerDay >= 0):
		return fmt.Errorf("gdp per day must be non-negative, got %v", s.GDPPerDay)
	case s.DaysPerTurn < 0:
		return fmt.Errorf("days per turn must be positive, got %d", s.DaysPerTurn)
	case s.CaseDispersion < 0:
		return fmt.Errorf("case dispersion must be non-negative, got %v", s.CaseDispersion)
	case !(s.ImportSeasonality >= 0 && s.ImportSeasonality <= 1):
		return fmt.Errorf("import seasonality must be in [0, 1], got %v", s.ImportSeasonality)
	case !(s.Costs.HospitalizationRate >= 0 && s.Costs.HospitalizationRate <= 1):
		return fmt.Errorf("hospitalization rate must be in [0, 1], got %v", s.Costs.HospitalizationRate)
	case !(s.Costs.CostPerHospitalization >= 0):
		return fmt.Errorf("cost per hospitalization must be non-negative, got %v", s.Costs.CostPerHospitalization)
	case !(s.Costs.ValueOfStatisticalLife >= 0):
		return fmt.Errorf("value of statistical life must be non-negative, got %v", s.Costs.ValueOfStatisticalLife)
	case !(s.Costs.LockdownLossFraction >= 0 && s.Costs.LockdownLossFraction <= 1):
		return fmt.Errorf("lockdown loss fraction must be in [0, 1], got %v", s.Costs.LockdownLossFraction)
	}

	ids := make(map[string]bool)
	for _, group := range [][]Action{s.ContainmentPolicies, s.CapabilityImprovements} {
		for _, a := range group {
			if a.ID == "" {
				return fmt.Errorf("action %q has no id", a.Name)
			}
			if ids[a.ID] {
				return fmt.Errorf("duplicate action id %q", a.ID)
			}
			ids[a.ID] = true
			for _, e := range append(append(Effects{}, a.Immediate...), a.Recurring...) {
				if err := e.validate(); err != nil {
					return fmt.Errorf("action %q: %w", a.ID, err)
				}
			}
		}
	}

	events := make(map[string]bool)
	for _, e := range s.RandomEvents {
		if e.Name == "" {
			return errors.New("random event has no name")
		}
		if events[e.Name] {
			return fmt.Errorf("duplicate random event %q", e.Name)
		}
		events[e.Name] = true
		if !(e.Probability >= 0 && e.Probability <= 1) {
			return fmt.Errorf("random event %q: probability %v outside [0, 1]", e.Name, e.Probability)
		}
		for _, eff := range e.Effect {
			if err := eff.validate(); err != nil {
				return fmt.Errorf("random event %q: %w", e.Name, err)
			}
		}
	}

	for _, v := range s.VictoryConditions {
		if err := v.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy. No slice is shared with s.
func (s Scenario) Clone() Scenario {
	cloneActions := func(in []Action) []Action {
		if in == nil {
			return nil
		}
		out := make([]Action, len(in))
		for i, a := range in {
			a.Immediate = slices.Clone(a.Immediate)
			a.Recurring = slices.Clone(a.Recurring)
			out[i] = a
		}
		return out
	}
	s.ContainmentPolicies = cloneActions(s.ContainmentPolicies)
	s.CapabilityImprovements = cloneActions(s.CapabilityImprovements)
	if s.RandomEvents != nil {
		events := make([]RandomEvent, len(s.RandomEvents))
		for i, e := range s.RandomEvents {
			e.Effect = slices.Clone(e.Effect)
			events[i] = e
		}
		s.RandomEvents = events
	}
	s.VictoryConditions = slices.Clone(s.VictoryConditions)
	return s
}
