// Package autoplay holds scripted players for headless games.
package autoplay

import (
	"slices"

	"github.com/talgya/outbreak/internal/scenario"
	"github.com/talgya/outbreak/internal/world"
)

// Strategy picks the actions for the next turn from the game so far.
type Strategy interface {
	Decide(snap world.Snapshot) world.PlayerActions
}

// DefaultRelease is the share of the trigger load below which closures lift.
const DefaultRelease = 0.5

// Threshold closes everything once hospital load crosses Trigger and keeps it
// closed until load falls below Trigger*Release. Capability improvements are
// funded from the first turn.
type Threshold struct {
	Trigger      float64
	Release      float64
	Policies     []string
	Improvements []string
}

// NewThreshold builds a Threshold player for every action a scenario offers.
func NewThreshold(sc scenario.Scenario, trigger float64) *Threshold {
	t := &Threshold{Trigger: trigger, Release: DefaultRelease}
	for _, p := range sc.ContainmentPolicies {
		t.Policies = append(t.Policies, p.ID)
	}
	for _, c := range sc.CapabilityImprovements {
		t.Improvements = append(t.Improvements, c.ID)
	}
	return t
}

// Load is infected over hospital capacity. No capacity with any infected
// counts as fully loaded.
func Load(ind world.Indicators) float64 {
	if ind.HospitalCapacity <= 0 {
		if ind.NumInfected > 0 {
			return 1
		}
		return 0
	}
	return float64(ind.NumInfected) / ind.HospitalCapacity
}

// Decide implements Strategy.
func (t *Threshold) Decide(snap world.Snapshot) world.PlayerActions {
	cur := snap.Current
	load := Load(cur.Indicators)
	closed := len(cur.PlayerActions.ContainmentPolicies) > 0

	var policies []string
	switch {
	case load >= t.Trigger:
		policies = slices.Clone(t.Policies)
	case closed && load >= t.Trigger*t.Release:
		policies = slices.Clone(cur.PlayerActions.ContainmentPolicies)
	}

	return world.PlayerActions{
		ContainmentPolicies:    policies,
		CapabilityImprovements: slices.Clone(t.Improvements),
	}
}
