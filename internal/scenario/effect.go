package scenario

import (
	"fmt"
	"math"

	"github.com/talgya/outbreak/internal/world"
)

// EffectOp is how an effect changes its target.
type EffectOp string

const (
	OpAdd   EffectOp = "add"   // target += amount, floored at 0
	OpScale EffectOp = "scale" // target *= amount
	OpSet   EffectOp = "set"   // target = amount
)

// Target is the indicator an effect changes.
type Target string

const (
	TargetR                Target = "r"
	TargetHospitalCapacity Target = "hospital_capacity"
	TargetImportedCases    Target = "imported_cases_per_day"
)

// Effect is one change to one indicator.
type Effect struct {
	Op     EffectOp `yaml:"op"`
	Target Target   `yaml:"target"`
	Amount float64  `yaml:"amount"`
}

// Effects apply in order; each sees the result of the previous one.
type Effects []Effect

// Apply returns the state's indicators with every effect applied.
func (es Effects) Apply(state world.WorldState) world.Indicators {
	ind := state.Indicators
	for _, e := range es {
		ind = e.apply(ind)
	}
	return ind
}

func (e Effect) apply(ind world.Indicators) world.Indicators {
	var field *float64
	switch e.Target {
	case TargetR:
		field = &ind.R
	case TargetHospitalCapacity:
		field = &ind.HospitalCapacity
	case TargetImportedCases:
		field = &ind.ImportedCasesPerDay
	default:
		return ind
	}

	switch e.Op {
	case OpAdd:
		*field = math.Max(*field+e.Amount, 0)
	case OpScale:
		*field = math.Max(*field*e.Amount, 0)
	case OpSet:
		*field = math.Max(e.Amount, 0)
	}
	return ind
}

func (e Effect) validate() error {
	switch e.Op {
	case OpAdd, OpScale, OpSet:
	default:
		return fmt.Errorf("unknown effect op %q", e.Op)
	}
	switch e.Target {
	case TargetR, TargetHospitalCapacity, TargetImportedCases:
	default:
		return fmt.Errorf("unknown effect target %q", e.Target)
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return fmt.Errorf("effect %s %s: amount must be finite", e.Op, e.Target)
	}
	return nil
}

// Action is a containment policy or capability improvement the player can
// toggle. Immediate effects apply on the turn it is first selected, recurring
// effects on every later turn it stays selected.
type Action struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Immediate Effects `yaml:"immediate"`
	Recurring Effects `yaml:"recurring"`
}

// ContainmentPolicy restricts behaviour (school closure, transit shutdown).
type ContainmentPolicy = Action

// CapabilityImprovement invests in capacity (field hospitals, screening).
type CapabilityImprovement = Action

// ImmediateEffect applies the one-time effects to state.
func (a Action) ImmediateEffect(state world.WorldState) world.Indicators {
	return a.Immediate.Apply(state)
}

// RecurringEffect applies the per-turn effects to state.
func (a Action) RecurringEffect(state world.WorldState) world.Indicators {
	return a.Recurring.Apply(state)
}

// RandomEvent is a scripted stochastic occurrence.
type RandomEvent struct {
	Name                string  `yaml:"name"`
	Probability         float64 `yaml:"probability"`
	MinDaysBeforeAppear int     `yaml:"min_days_before_appear"`
	HappensOnce         bool    `yaml:"happens_once"`
	Effect              Effects `yaml:"effect"`
}

// ImmediateEffect applies the event to state.
func (e RandomEvent) ImmediateEffect(state world.WorldState) world.Indicators {
	return e.Effect.Apply(state)
}

// Eligible reports whether the event may fire at day given the events fired so far.
func (e RandomEvent) Eligible(day int, fired map[string]bool) bool {
	if day < e.MinDaysBeforeAppear {
		return false
	}
	return !(e.HappensOnce && fired[e.Name])
}
