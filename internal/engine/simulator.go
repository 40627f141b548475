// Package engine advances the epidemic one multi-day turn at a time.
//
// A Simulator owns the current world state and the append-only history of
// every prior state. Callers only ever receive deep copies, so nothing they do
// with a returned value can change how later turns play out.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/outbreak/internal/cost"
	"github.com/talgya/outbreak/internal/sampler"
	"github.com/talgya/outbreak/internal/scenario"
	"github.com/talgya/outbreak/internal/world"
)

var (
	// ErrConcluded is returned by NextTurn once a victory condition has been met.
	ErrConcluded = errors.New("game already concluded")

	// ErrTurnOutOfRange is returned when asking for a turn that has not been played.
	ErrTurnOutOfRange = errors.New("turn out of range")
)

// Options control the non-deterministic parts of a Simulator.
type Options struct {
	Seed         int64                // Seeds the case sampler, random events and import drift
	Distribution sampler.Distribution // nil = negative binomial with the scenario's dispersion
	Logger       *slog.Logger         // nil = slog.Default()
}

// Simulator is the turn engine. It is not safe for concurrent use.
type Simulator struct {
	scenario    scenario.Scenario
	costs       cost.Model
	daysPerTurn int
	opts        Options

	rng     *rand.Rand
	cases   *sampler.Generator
	imports *world.ImportDriver
	log     *slog.Logger

	current   world.WorldState
	history   []world.WorldState
	concluded bool
}

// New validates sc and creates a Simulator positioned at turn 0.
func New(sc scenario.Scenario, opts Options) (*Simulator, error) {
	sc = sc.WithDefaults().Clone()
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("new simulator: %w", err)
	}
	if opts.Distribution == nil {
		opts.Distribution = sampler.NegativeBinomial{Dispersion: sc.CaseDispersion}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := newSimulator(sc, opts, opts.Seed)
	s.current = s.initialState()
	return s, nil
}

func newSimulator(sc scenario.Scenario, opts Options, seed int64) *Simulator {
	rng := rand.New(rand.NewSource(seed))
	return &Simulator{
		scenario:    sc,
		costs:       sc.CostModel(),
		daysPerTurn: sc.DaysPerTurn,
		opts:        opts,
		rng:         rng,
		cases:       sampler.NewGenerator(opts.Distribution, sc.TotalPopulation, rng),
		imports:     world.NewImportDriver(opts.Seed, sc.ImportSeasonality),
		log:         opts.Logger,
	}
}

func (s *Simulator) initialState() world.WorldState {
	sc := s.scenario
	b := s.costs.Breakdown(float64(sc.InitialNumInfected), 0, sc.R0, 0)
	return world.WorldState{
		DaysElapsed: 0,
		EffectiveR:  sc.R0,
		Indicators: world.Indicators{
			NumInfected:         sc.InitialNumInfected,
			NumDead:             0,
			TotalPopulation:     sc.TotalPopulation,
			HospitalCapacity:    sc.HospitalCapacity,
			R:                   sc.R0,
			ImportedCasesPerDay: sc.ImportedCasesPerDay,
			EconomicCosts:       b.Economic,
			MedicalCosts:        b.Medical,
			DeathCosts:          b.Death,
			TotalCost:           b.Total,
		},
		PlayerActions: world.PlayerActions{},
	}
}

// State returns a deep copy of the current state and full history.
func (s *Simulator) State() world.Snapshot {
	return world.NewSnapshot(s.current, s.history)
}

// Turn is the number of turns committed so far.
func (s *Simulator) Turn() int {
	return len(s.history)
}

// DaysPerTurn is the number of days each turn advances.
func (s *Simulator) DaysPerTurn() int {
	return s.daysPerTurn
}

// Concluded reports whether a victory condition has ended the game.
func (s *Simulator) Concluded() bool {
	return s.concluded
}

// NextTurn plays one turn with the given player actions. Unknown action ids
// are ignored. After a victory it returns ErrConcluded.
func (s *Simulator) NextTurn(actions world.PlayerActions) (TurnResult, error) {
	if s.concluded {
		return nil, ErrConcluded
	}

	sel := s.resolve(actions)
	prev := s.current.PlayerActions

	candidate := s.current.Clone()
	candidate.Indicators.ImportedCasesPerDay = s.imports.ImportedCases(
		candidate.Indicators.ImportedCasesPerDay, candidate.DaysElapsed)

	// Recurring effects of everything still selected from last turn.
	for _, a := range continuing(sel.policies, prev.ContainmentPolicies) {
		candidate.Indicators = a.RecurringEffect(candidate)
	}
	for _, a := range continuing(sel.improvements, prev.CapabilityImprovements) {
		candidate.Indicators = a.RecurringEffect(candidate)
	}

	// One-time effects of anything selected for the first time.
	for _, a := range newlyActive(sel.policies, prev.ContainmentPolicies) {
		candidate.Indicators = a.ImmediateEffect(candidate)
	}
	for _, a := range newlyActive(sel.improvements, prev.CapabilityImprovements) {
		candidate.Indicators = a.ImmediateEffect(candidate)
	}

	fired := s.pickRandomEvents()
	names := make([]string, 0, len(fired))
	for _, e := range fired {
		candidate.Indicators = e.ImmediateEffect(candidate)
		names = append(names, e.Name)
	}

	next := s.advance(candidate)
	next.PlayerActions = sel.playerActions()
	next.RandomEvents = names
	s.commit(next)

	snap := s.State()
	if cond, ok := Evaluate(s.scenario.VictoryConditions, snap); ok {
		s.concluded = true
		v := victoryFor(snap, cond)
		s.log.Info("victory",
			"condition", cond.Name,
			"turn", s.Turn(),
			"date", DateLabel(s.current.DaysElapsed),
			"score", v.Score,
			"total_cases", v.TotalCases,
		)
		return v, nil
	}

	return NextTurn{State: s.current.Clone(), NewRandomEvents: names}, nil
}

// commit pushes the current state onto history and installs next.
func (s *Simulator) commit(next world.WorldState) {
	s.history = append(s.history, s.current)
	s.current = next

	ind := next.Indicators
	s.log.Info("turn committed",
		"turn", s.Turn(),
		"days", next.DaysElapsed,
		"date", DateLabel(next.DaysElapsed),
		"infected", ind.NumInfected,
		"dead", ind.NumDead,
		"effective_r", next.EffectiveR,
		"total_cost", ind.TotalCost,
		"policies", len(next.PlayerActions.ContainmentPolicies),
		"improvements", len(next.PlayerActions.CapabilityImprovements),
		"events", len(next.RandomEvents),
	)
}
