package engine

import (
	"math"
	"slices"

	"github.com/talgya/outbreak/internal/scenario"
	"github.com/talgya/outbreak/internal/world"
)

// deathLagDays is how long after infection deaths are counted.
const deathLagDays = 20

// selection is the player's choice resolved against the scenario catalog, in
// scenario declaration order.
type selection struct {
	policies     []scenario.Action
	improvements []scenario.Action
}

func (sel selection) playerActions() world.PlayerActions {
	ids := func(actions []scenario.Action) []string {
		out := make([]string, len(actions))
		for i, a := range actions {
			out[i] = a.ID
		}
		return out
	}
	return world.PlayerActions{
		ContainmentPolicies:    ids(sel.policies),
		CapabilityImprovements: ids(sel.improvements),
	}
}

// resolve maps requested ids onto the catalog. Unknown and duplicate ids are dropped.
func (s *Simulator) resolve(actions world.PlayerActions) selection {
	pick := func(kind string, catalog []scenario.Action, requested []string) []scenario.Action {
		var out []scenario.Action
		for _, a := range catalog {
			if slices.Contains(requested, a.ID) {
				out = append(out, a)
			}
		}
		for _, id := range requested {
			if !slices.ContainsFunc(catalog, func(a scenario.Action) bool { return a.ID == id }) {
				s.log.Debug("ignoring unknown action", "kind", kind, "id", id)
			}
		}
		return out
	}
	return selection{
		policies:     pick("containment_policy", s.scenario.ContainmentPolicies, actions.ContainmentPolicies),
		improvements: pick("capability_improvement", s.scenario.CapabilityImprovements, actions.CapabilityImprovements),
	}
}

// continuing returns the selected actions that were also active last turn.
func continuing(selected []scenario.Action, previous []string) []scenario.Action {
	var out []scenario.Action
	for _, a := range selected {
		if slices.Contains(previous, a.ID) {
			out = append(out, a)
		}
	}
	return out
}

// newlyActive returns the selected actions that were not active last turn.
func newlyActive(selected []scenario.Action, previous []string) []scenario.Action {
	var out []scenario.Action
	for _, a := range selected {
		if !slices.Contains(previous, a.ID) {
			out = append(out, a)
		}
	}
	return out
}

// pickRandomEvents rolls every eligible event once, in scenario order.
func (s *Simulator) pickRandomEvents() []scenario.RandomEvent {
	fired := world.NewSnapshot(s.current, s.history).FiredEvents()
	day := s.current.DaysElapsed

	var out []scenario.RandomEvent
	for _, e := range s.scenario.RandomEvents {
		if !e.Eligible(day, fired) {
			continue
		}
		if s.rng.Float64() < e.Probability {
			out = append(out, e)
		}
	}
	return out
}

// EffectiveR compounds a daily rate over a turn and caps it so that projected
// infections do not exceed hospital capacity. With no infected there is
// nothing to cap.
func EffectiveR(dailyR float64, daysPerTurn, prevInfected int, hospitalCapacity float64) float64 {
	rEff := math.Pow(dailyR, float64(daysPerTurn))
	if prevInfected > 0 && float64(prevInfected)*rEff >= hospitalCapacity {
		rEff = hospitalCapacity / float64(prevInfected)
	}
	return rEff
}

// advance runs the epidemic forward one turn from the effect-adjusted candidate.
func (s *Simulator) advance(candidate world.WorldState) world.WorldState {
	sc := s.scenario
	prev := s.current.Indicators.NumInfected
	capacity := candidate.Indicators.HospitalCapacity

	rEff := EffectiveR(candidate.Indicators.R, s.daysPerTurn, prev, capacity)
	infected := s.cases.Sample(prev, rEff, candidate.Indicators.ImportedCasesPerDay)
	dead := s.laggedDeaths(s.Turn()+1, infected)
	days := s.current.DaysElapsed + s.daysPerTurn
	b := s.costs.Breakdown(float64(infected), dead, rEff, float64(days))

	// R and imported cases revert to baseline; active policies re-apply
	// their effects next turn. Capacity investments persist.
	return world.WorldState{
		DaysElapsed: days,
		EffectiveR:  rEff,
		Indicators: world.Indicators{
			NumInfected:         infected,
			NumDead:             dead,
			TotalPopulation:     sc.TotalPopulation,
			HospitalCapacity:    capacity,
			R:                   sc.R0,
			ImportedCasesPerDay: sc.ImportedCasesPerDay,
			EconomicCosts:       b.Economic,
			MedicalCosts:        b.Medical,
			DeathCosts:          b.Death,
			TotalCost:           b.Total,
		},
	}
}

// laggedDeaths applies mortality to the infected count from deathLagDays ago.
// turn is the turn being computed; newInfected is its fresh count, used when
// a turn is longer than the lag.
func (s *Simulator) laggedDeaths(turn, newInfected int) float64 {
	lag := deathLagDays / s.daysPerTurn
	if lag == 0 {
		return float64(newInfected) * s.scenario.Mortality
	}
	source := turn - lag
	if source < 0 {
		return 0
	}

	var infected int
	if source == len(s.history) {
		infected = s.current.Indicators.NumInfected
	} else {
		infected = s.history[source].Indicators.NumInfected
	}
	return float64(infected) * s.scenario.Mortality
}
