// Package world holds the epidemic's value types: indicators, per-turn world
// states and the read-only snapshots handed to callers.
package world

import "slices"

// Indicators is the measurable condition of the population at the end of a turn.
type Indicators struct {
	NumInfected         int     `json:"num_infected"`
	NumDead             float64 `json:"num_dead"` // Deaths attributed to this turn
	TotalPopulation     int     `json:"total_population"`
	HospitalCapacity    float64 `json:"hospital_capacity"`
	R                   float64 `json:"r"` // Daily reproduction rate
	ImportedCasesPerDay float64 `json:"imported_cases_per_day"`
	EconomicCosts       float64 `json:"economic_costs"`
	MedicalCosts        float64 `json:"medical_costs"`
	DeathCosts          float64 `json:"death_costs"`
	TotalCost           float64 `json:"total_cost"`
}

// PlayerActions names the containment policies and capability improvements
// the player has active for a turn, by id.
type PlayerActions struct {
	ContainmentPolicies    []string `json:"containment_policies"`
	CapabilityImprovements []string `json:"capability_improvements"`
}

// Clone returns an independent copy.
func (p PlayerActions) Clone() PlayerActions {
	return PlayerActions{
		ContainmentPolicies:    slices.Clone(p.ContainmentPolicies),
		CapabilityImprovements: slices.Clone(p.CapabilityImprovements),
	}
}

// WorldState is the state committed at the end of one turn.
type WorldState struct {
	DaysElapsed   int           `json:"days_elapsed"`
	Indicators    Indicators    `json:"indicators"`
	PlayerActions PlayerActions `json:"player_actions"`
	RandomEvents  []string      `json:"random_events"` // Events that fired this turn
	EffectiveR    float64       `json:"effective_r"`   // Compounded, capped r used for sampling
}

// Clone returns a structural deep copy.
func (s WorldState) Clone() WorldState {
	s.PlayerActions = s.PlayerActions.Clone()
	s.RandomEvents = slices.Clone(s.RandomEvents)
	return s
}

// Snapshot is a read-only view of the simulator: the current state plus every
// prior state in turn order.
type Snapshot struct {
	Current WorldState   `json:"current"`
	History []WorldState `json:"history"`
}

// NewSnapshot deep-copies current and history into a Snapshot.
func NewSnapshot(current WorldState, history []WorldState) Snapshot {
	h := make([]WorldState, len(history))
	for i, s := range history {
		h[i] = s.Clone()
	}
	return Snapshot{Current: current.Clone(), History: h}
}

// Turn is the index of the current state; the initial state is turn 0.
func (s Snapshot) Turn() int {
	return len(s.History)
}

// Timeline returns history followed by the current state, so Timeline()[n]
// is the state at turn n.
func (s Snapshot) Timeline() []WorldState {
	out := make([]WorldState, 0, len(s.History)+1)
	out = append(out, s.History...)
	return append(out, s.Current)
}

// CumulativeCost sums TotalCost over every turn including the initial state.
func (s Snapshot) CumulativeCost() float64 {
	total := 0.0
	for _, st := range s.Timeline() {
		total += st.Indicators.TotalCost
	}
	return total
}

// CumulativeCases sums NumInfected over every turn including the initial state.
func (s Snapshot) CumulativeCases() int {
	total := 0
	for _, st := range s.Timeline() {
		total += st.Indicators.NumInfected
	}
	return total
}

// FiredEvents reports every random event name that has fired so far.
func (s Snapshot) FiredEvents() map[string]bool {
	fired := make(map[string]bool)
	for _, st := range s.Timeline() {
		for _, name := range st.RandomEvents {
			fired[name] = true
		}
	}
	return fired
}
