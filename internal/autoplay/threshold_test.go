package autoplay

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outbreak/internal/engine"
	"github.com/talgya/outbreak/internal/sampler"
	"github.com/talgya/outbreak/internal/scenario"
	"github.com/talgya/outbreak/internal/world"
)

func snapshot(infected int, capacity float64, policies ...string) world.Snapshot {
	return world.NewSnapshot(world.WorldState{
		Indicators: world.Indicators{NumInfected: infected, HospitalCapacity: capacity},
		PlayerActions: world.PlayerActions{
			ContainmentPolicies: policies,
		},
	}, nil)
}

func TestNewThresholdListsScenarioActions(t *testing.T) {
	p := NewThreshold(scenario.Default(), 0.8)
	assert.Equal(t, []string{"schools", "transit"}, p.Policies)
	assert.Equal(t, []string{"field_hospitals", "border_screening"}, p.Improvements)
	assert.Equal(t, DefaultRelease, p.Release)
}

func TestThresholdDecide(t *testing.T) {
	p := NewThreshold(scenario.Default(), 0.8)

	tests := []struct {
		name string
		snap world.Snapshot
		want []string
	}{
		{"below trigger stays open", snapshot(50, 100), nil},
		{"at trigger closes", snapshot(80, 100), []string{"schools", "transit"}},
		{"closed above release stays closed", snapshot(50, 100, "schools", "transit"), []string{"schools", "transit"}},
		{"closed below release reopens", snapshot(30, 100, "schools", "transit"), nil},
		{"no capacity with cases closes", snapshot(1, 0), []string{"schools", "transit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Decide(tt.snap)
			assert.Equal(t, tt.want, got.ContainmentPolicies)
			assert.Equal(t, []string{"field_hospitals", "border_screening"}, got.CapabilityImprovements)
		})
	}
}

func TestDecideDoesNotAliasPolicies(t *testing.T) {
	p := NewThreshold(scenario.Default(), 0)
	got := p.Decide(snapshot(10, 100))
	got.ContainmentPolicies[0] = "mutated"
	assert.Equal(t, "schools", p.Policies[0])
}

func TestLoad(t *testing.T) {
	assert.Equal(t, 0.5, Load(world.Indicators{NumInfected: 50, HospitalCapacity: 100}))
	assert.Equal(t, 0.0, Load(world.Indicators{}))
	assert.Equal(t, 1.0, Load(world.Indicators{NumInfected: 3}))
}

func TestThresholdPlaysDefaultScenario(t *testing.T) {
	sc := scenario.Default()
	sim, err := engine.New(sc, engine.Options{
		Seed:         7,
		Distribution: sampler.Fixed{},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	p := NewThreshold(sc, 0.8)
	var res engine.TurnResult
	for i := 0; i < 36 && !sim.Concluded(); i++ {
		res, err = sim.NextTurn(p.Decide(sim.State()))
		require.NoError(t, err)
	}

	_, won := res.(engine.Victory)
	assert.True(t, won, "a year of play always reaches a victory condition")
	// 100 infected against a capacity of 100 closes everything on the first turn.
	first, err := sim.StateAt(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"schools", "transit"}, first.Current.PlayerActions.ContainmentPolicies)
}
