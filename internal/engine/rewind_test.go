package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outbreak/internal/sampler"
	"github.com/talgya/outbreak/internal/scenario"
	"github.com/talgya/outbreak/internal/world"
)

func TestStateAt(t *testing.T) {
	s := newSim(t, flatScenario(), sampler.Fixed{})
	for i := 0; i < 3; i++ {
		mustNext(t, s, world.PlayerActions{})
	}

	snap, err := s.StateAt(1)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Turn())
	assert.Equal(t, 10, snap.Current.DaysElapsed)
	assert.Equal(t, 110, snap.Current.Indicators.NumInfected)

	snap, err = s.StateAt(0)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Turn())
	assert.Equal(t, 100, snap.Current.Indicators.NumInfected)

	_, err = s.StateAt(4)
	assert.True(t, errors.Is(err, ErrTurnOutOfRange))
	_, err = s.StateAt(-1)
	assert.True(t, errors.Is(err, ErrTurnOutOfRange))
}

func TestRewindForksWithoutTouchingOriginal(t *testing.T) {
	s := newSim(t, flatScenario(), sampler.Fixed{})
	for i := 0; i < 3; i++ {
		mustNext(t, s, world.PlayerActions{})
	}

	fork, err := s.Rewind(1)
	require.NoError(t, err)
	assert.Equal(t, 1, fork.Turn())
	assert.Equal(t, 3, s.Turn())

	next := mustNext(t, fork, world.PlayerActions{})
	assert.Equal(t, 20, next.State.DaysElapsed)
	assert.Equal(t, 120, next.State.Indicators.NumInfected)
	// Lag reads from the fork's own history.
	assert.InDelta(t, 1.0, next.State.Indicators.NumDead, 1e-12)
	assert.Equal(t, 3, s.Turn())
}

func TestRewindReopensConcludedGame(t *testing.T) {
	sc := flatScenario()
	sc.VictoryConditions = []scenario.VictoryCondition{
		{Name: "month", Kind: scenario.VictoryDaysElapsed, Threshold: 30},
	}
	s := newSim(t, sc, sampler.Fixed{})
	for i := 0; i < 3; i++ {
		_, err := s.NextTurn(world.PlayerActions{})
		require.NoError(t, err)
	}
	require.True(t, s.Concluded())

	fork, err := s.Rewind(2)
	require.NoError(t, err)
	assert.False(t, fork.Concluded())
	res, err := fork.NextTurn(world.PlayerActions{})
	require.NoError(t, err)
	assert.IsType(t, Victory{}, res)
}

func TestRewindToWinningTurnStaysConcluded(t *testing.T) {
	sc := flatScenario()
	sc.VictoryConditions = []scenario.VictoryCondition{
		{Name: "month", Kind: scenario.VictoryDaysElapsed, Threshold: 30},
	}
	s := newSim(t, sc, sampler.Fixed{})
	for i := 0; i < 3; i++ {
		_, err := s.NextTurn(world.PlayerActions{})
		require.NoError(t, err)
	}
	require.True(t, s.Concluded())

	fork, err := s.Rewind(s.Turn())
	require.NoError(t, err)
	assert.True(t, fork.Concluded())
	_, err = fork.NextTurn(world.PlayerActions{})
	assert.True(t, errors.Is(err, ErrConcluded))
	assert.Equal(t, 3, fork.Turn())

	restored, err := Restore(sc, Options{Distribution: sampler.Fixed{}, Logger: quietLogger()}, s.State().Timeline())
	require.NoError(t, err)
	assert.Equal(t, fork.Concluded(), restored.Concluded())

	want, ok := s.Outcome()
	require.True(t, ok)
	got, ok := restored.Outcome()
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, "month", got.Condition.Name)
}

func TestOutcomeOfActiveGame(t *testing.T) {
	s := newSim(t, flatScenario(), sampler.Fixed{})
	mustNext(t, s, world.PlayerActions{})
	_, ok := s.Outcome()
	assert.False(t, ok)
}

func TestRewindToStartIsActive(t *testing.T) {
	sc := flatScenario()
	sc.VictoryConditions = []scenario.VictoryCondition{
		{Name: "immediately", Kind: scenario.VictoryDaysElapsed, Threshold: 0},
	}
	s := newSim(t, sc, sampler.Fixed{})
	_, err := s.NextTurn(world.PlayerActions{})
	require.NoError(t, err)
	require.True(t, s.Concluded())

	fork, err := s.Rewind(0)
	require.NoError(t, err)
	assert.False(t, fork.Concluded())
}

func TestRewindOutOfRange(t *testing.T) {
	s := newSim(t, flatScenario(), sampler.Fixed{})
	_, err := s.Rewind(1)
	assert.True(t, errors.Is(err, ErrTurnOutOfRange))
}

func TestRestore(t *testing.T) {
	s := newSim(t, flatScenario(), sampler.Fixed{})
	for i := 0; i < 3; i++ {
		mustNext(t, s, world.PlayerActions{ContainmentPolicies: []string{"schools"}})
	}
	timeline := s.State().Timeline()

	restored, err := Restore(flatScenario(), Options{Distribution: sampler.Fixed{}, Logger: quietLogger()}, timeline)
	require.NoError(t, err)
	assert.Equal(t, s.State(), restored.State())

	a := mustNext(t, s, world.PlayerActions{ContainmentPolicies: []string{"schools"}})
	b := mustNext(t, restored, world.PlayerActions{ContainmentPolicies: []string{"schools"}})
	assert.Equal(t, a.State, b.State)
}

func TestRestoreRejectsBadTimeline(t *testing.T) {
	_, err := Restore(flatScenario(), Options{}, nil)
	assert.Error(t, err)

	gap := []world.WorldState{{DaysElapsed: 0}, {DaysElapsed: 25}}
	_, err = Restore(flatScenario(), Options{Logger: quietLogger()}, gap)
	assert.Error(t, err)
}

func TestEvaluateNoConditions(t *testing.T) {
	_, ok := Evaluate(nil, world.Snapshot{})
	assert.False(t, ok)
}

func TestDateLabel(t *testing.T) {
	assert.Equal(t, "Jan 1 2021", DateLabel(0))
	assert.Equal(t, "Feb 10 2021", DateLabel(40))
	assert.Equal(t, "Jan 1 2022", DateLabel(365))
}
