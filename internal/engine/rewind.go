package engine

import (
	"fmt"

	"github.com/talgya/outbreak/internal/scenario"
	"github.com/talgya/outbreak/internal/world"
)

// StateAt reconstructs the snapshot as it was when turn had just been
// committed. Turn 0 is the initial state.
func (s *Simulator) StateAt(turn int) (world.Snapshot, error) {
	if turn < 0 || turn > s.Turn() {
		return world.Snapshot{}, fmt.Errorf("state at %d of %d: %w", turn, s.Turn(), ErrTurnOutOfRange)
	}
	timeline := append(append([]world.WorldState{}, s.history...), s.current)
	return world.NewSnapshot(timeline[turn], timeline[:turn]), nil
}

// Rewind forks a new Simulator positioned at turn. The receiver is left
// untouched and keeps its full history. The fork draws from its own random
// stream derived from the receiver's seed and the turn. A fork whose state
// already meets a victory condition starts concluded.
func (s *Simulator) Rewind(turn int) (*Simulator, error) {
	snap, err := s.StateAt(turn)
	if err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}

	fork := newSimulator(s.scenario, s.opts, s.opts.Seed+int64(turn)+1)
	fork.current = snap.Current
	fork.history = snap.History
	fork.concludeIfWon(snap)
	s.log.Info("rewound", "to_turn", turn, "from_turn", s.Turn(), "concluded", fork.concluded)
	return fork, nil
}

// Restore creates a Simulator from a previously recorded timeline, where
// timeline[n] is the state at turn n. Used to resume saved runs.
func Restore(sc scenario.Scenario, opts Options, timeline []world.WorldState) (*Simulator, error) {
	if len(timeline) == 0 {
		return nil, fmt.Errorf("restore: empty timeline")
	}
	s, err := New(sc, opts)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(timeline); i++ {
		if timeline[i].DaysElapsed != timeline[i-1].DaysElapsed+s.daysPerTurn {
			return nil, fmt.Errorf("restore: turn %d at day %d does not follow day %d",
				i, timeline[i].DaysElapsed, timeline[i-1].DaysElapsed)
		}
	}

	snap := world.NewSnapshot(timeline[len(timeline)-1], timeline[:len(timeline)-1])
	fork := newSimulator(s.scenario, s.opts, s.opts.Seed+int64(len(timeline)))
	fork.current = snap.Current
	fork.history = snap.History
	fork.concludeIfWon(snap)
	return fork, nil
}

// concludeIfWon marks the simulator concluded when snap meets a victory
// condition. Turn 0 is never evaluated, matching NextTurn.
func (s *Simulator) concludeIfWon(snap world.Snapshot) {
	if snap.Turn() == 0 {
		return
	}
	if _, ok := Evaluate(s.scenario.VictoryConditions, snap); ok {
		s.concluded = true
	}
}
