package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState(days, infected int, cost float64, events ...string) WorldState {
	return WorldState{
		DaysElapsed: days,
		Indicators:  Indicators{NumInfected: infected, TotalCost: cost},
		PlayerActions: PlayerActions{
			ContainmentPolicies: []string{"schools"},
		},
		RandomEvents: events,
	}
}

func TestWorldStateCloneIsIndependent(t *testing.T) {
	orig := sampleState(10, 5, 1, "festival")
	cp := orig.Clone()

	cp.PlayerActions.ContainmentPolicies[0] = "transit"
	cp.RandomEvents[0] = "storm"
	cp.Indicators.NumInfected = 99

	assert.Equal(t, "schools", orig.PlayerActions.ContainmentPolicies[0])
	assert.Equal(t, "festival", orig.RandomEvents[0])
	assert.Equal(t, 5, orig.Indicators.NumInfected)
}

func TestSnapshotTimelineAndTotals(t *testing.T) {
	history := []WorldState{sampleState(0, 10, 100), sampleState(10, 20, 200, "festival")}
	snap := NewSnapshot(sampleState(20, 30, 300), history)

	require.Equal(t, 2, snap.Turn())
	tl := snap.Timeline()
	require.Len(t, tl, 3)
	assert.Equal(t, 20, tl[2].DaysElapsed)
	assert.Equal(t, 600.0, snap.CumulativeCost())
	assert.Equal(t, 60, snap.CumulativeCases())
	assert.Equal(t, map[string]bool{"festival": true}, snap.FiredEvents())

	history[1].RandomEvents[0] = "mutated"
	assert.Equal(t, "festival", snap.History[1].RandomEvents[0])
}

func TestImportDriverDisabled(t *testing.T) {
	var nilDriver *ImportDriver
	assert.Equal(t, 3.0, nilDriver.ImportedCases(3, 40))
	assert.Equal(t, 3.0, NewImportDriver(1, 0).ImportedCases(3, 40))
}

func TestImportDriverBounds(t *testing.T) {
	d := NewImportDriver(42, 1.5)
	require.Equal(t, 1.0, d.Amplitude)
	varied := false
	for day := 0; day < 720; day += 10 {
		got := d.ImportedCases(10, day)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 20.0)
		if got != 10 {
			varied = true
		}
	}
	assert.True(t, varied)
}

func TestImportDriverDeterministic(t *testing.T) {
	a := NewImportDriver(7, 0.5)
	b := NewImportDriver(7, 0.5)
	for day := 0; day < 200; day += 10 {
		assert.Equal(t, a.ImportedCases(4, day), b.ImportedCases(4, day))
	}
}
