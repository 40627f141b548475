package engine

import (
	"github.com/talgya/outbreak/internal/scenario"
	"github.com/talgya/outbreak/internal/world"
)

// Evaluate returns the first condition, in declared order, that snap meets.
func Evaluate(conditions []scenario.VictoryCondition, snap world.Snapshot) (scenario.VictoryCondition, bool) {
	for _, c := range conditions {
		if c.IsMet(snap) {
			return c, true
		}
	}
	return scenario.VictoryCondition{}, false
}

func victoryFor(snap world.Snapshot, cond scenario.VictoryCondition) Victory {
	return Victory{
		Final:      snap,
		Score:      snap.CumulativeCost(),
		TotalCases: snap.CumulativeCases(),
		Condition:  cond,
	}
}

// Outcome returns the Victory of a concluded game. A game restored or rewound
// onto a winning turn reports its outcome here without playing another turn.
func (s *Simulator) Outcome() (Victory, bool) {
	if !s.concluded {
		return Victory{}, false
	}
	snap := s.State()
	cond, ok := Evaluate(s.scenario.VictoryConditions, snap)
	if !ok {
		return Victory{}, false
	}
	return victoryFor(snap, cond), true
}
