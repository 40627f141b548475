package scenario

import (
	"fmt"

	"github.com/talgya/outbreak/internal/world"
)

// VictoryKind selects the built-in predicate of a VictoryCondition.
type VictoryKind string

const (
	VictoryDaysElapsed         VictoryKind = "days_elapsed"          // DaysElapsed >= Threshold
	VictoryTotalCostAbove      VictoryKind = "total_cost_above"      // current TotalCost > Threshold
	VictoryCumulativeCostAbove VictoryKind = "cumulative_cost_above" // summed TotalCost > Threshold
	VictoryInfectedAtMost      VictoryKind = "infected_at_most"      // NumInfected <= Threshold after turn 0
)

// VictoryCondition ends the game when met. Predicate, when set, overrides Kind.
type VictoryCondition struct {
	Name      string      `yaml:"name"`
	Kind      VictoryKind `yaml:"kind"`
	Threshold float64     `yaml:"threshold"`

	Predicate func(world.Snapshot) bool `yaml:"-"`
}

// IsMet evaluates the condition. It must not mutate the snapshot.
func (v VictoryCondition) IsMet(snap world.Snapshot) bool {
	if v.Predicate != nil {
		return v.Predicate(snap)
	}
	cur := snap.Current
	switch v.Kind {
	case VictoryDaysElapsed:
		return float64(cur.DaysElapsed) >= v.Threshold
	case VictoryTotalCostAbove:
		return cur.Indicators.TotalCost > v.Threshold
	case VictoryCumulativeCostAbove:
		return snap.CumulativeCost() > v.Threshold
	case VictoryInfectedAtMost:
		return snap.Turn() > 0 && float64(cur.Indicators.NumInfected) <= v.Threshold
	}
	return false
}

func (v VictoryCondition) validate() error {
	if v.Predicate != nil {
		return nil
	}
	switch v.Kind {
	case VictoryDaysElapsed, VictoryTotalCostAbove, VictoryCumulativeCostAbove, VictoryInfectedAtMost:
		return nil
	}
	return fmt.Errorf("victory condition %q: unknown kind %q", v.Name, v.Kind)
}
