// Command outbreak plays a headless epidemic game with a scripted player and
// records every turn in the run ledger.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/outbreak/internal/autoplay"
	"github.com/talgya/outbreak/internal/config"
	"github.com/talgya/outbreak/internal/engine"
	"github.com/talgya/outbreak/internal/entropy"
	"github.com/talgya/outbreak/internal/persistence"
	"github.com/talgya/outbreak/internal/sampler"
	"github.com/talgya/outbreak/internal/scenario"
	"github.com/talgya/outbreak/internal/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("outbreak failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	// ── Scenario ──────────────────────────────────────────────────────
	sc := scenario.Default()
	if cfg.ScenarioPath != "" {
		loaded, err := scenario.Load(cfg.ScenarioPath)
		if err != nil {
			return err
		}
		sc = loaded
	}

	dist, err := sampler.ByName(cfg.Distribution, sc.WithDefaults().CaseDispersion)
	if err != nil {
		return err
	}

	// ── Ledger ────────────────────────────────────────────────────────
	db, err := openLedger(cfg.DBPath)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		slog.Info("ledger opened", "path", cfg.DBPath)
	}

	// ── Simulator (fresh or resumed) ─────────────────────────────────
	var sim *engine.Simulator
	rec := &recorder{}
	if cfg.Resume != "" {
		if db == nil {
			return fmt.Errorf("OUTBREAK_RESUME needs a ledger (OUTBREAK_DB)")
		}
		sim, rec, err = resume(db, cfg.Resume, sc, dist)
		if err != nil {
			return err
		}
	} else {
		seed := entropy.Resolve(cfg.Seed)
		sim, err = engine.New(sc, engine.Options{Seed: seed, Distribution: dist})
		if err != nil {
			return err
		}
		if db != nil {
			if err := rec.start(db, sc.Name, seed, sim.State().Timeline()); err != nil {
				return err
			}
		}
		slog.Info("game started", "scenario", sc.Name, "seed", seed, "distribution", dist.Name(), "run_id", rec.runID)
	}

	// ── Play ──────────────────────────────────────────────────────────
	player := autoplay.NewThreshold(sc, cfg.CapacityTrigger)
	victory, err := play(ctx, sim, player, rec, cfg.MaxTurns)
	if err != nil {
		return err
	}

	report(sim.State(), victory)
	if db != nil {
		return reportRecent(db, recentRuns)
	}
	return nil
}

func resume(db *persistence.DB, id string, sc scenario.Scenario, dist sampler.Distribution) (*engine.Simulator, *recorder, error) {
	id, err := resumeID(db, id)
	if err != nil {
		return nil, nil, err
	}
	r, err := db.GetRun(id)
	if err != nil {
		return nil, nil, err
	}
	if r.ConcludedAt.Valid {
		return nil, nil, fmt.Errorf("run %s already concluded with %q", id, r.Victory.String)
	}
	if r.Scenario != sc.Name {
		slog.Warn("resuming with a different scenario", "recorded", r.Scenario, "loaded", sc.Name)
	}
	timeline, err := db.LoadTurns(id)
	if err != nil {
		return nil, nil, err
	}
	sim, err := engine.Restore(sc, engine.Options{Seed: r.Seed, Distribution: dist}, timeline)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("game resumed", "run_id", id, "turn", sim.Turn(), "date", engine.DateLabel(sim.State().Current.DaysElapsed))
	return sim, &recorder{db: db, runID: id}, nil
}

// play runs turns until a victory, maxTurns, or cancellation. A game that is
// already won, such as a resumed run that died before it was concluded, is
// concluded without playing.
func play(ctx context.Context, sim *engine.Simulator, player autoplay.Strategy, rec *recorder, maxTurns int) (*engine.Victory, error) {
	if v, ok := sim.Outcome(); ok {
		rec.conclude(v.Score, v.Condition.Name)
		return &v, nil
	}
	for sim.Turn() < maxTurns && !sim.Concluded() {
		if err := ctx.Err(); err != nil {
			slog.Info("stopping between turns", "turn", sim.Turn())
			return nil, nil
		}

		res, err := sim.NextTurn(player.Decide(sim.State()))
		if err != nil {
			return nil, err
		}
		rec.turn(sim.Turn(), sim.State().Current)

		switch r := res.(type) {
		case engine.NextTurn:
			for _, ev := range r.NewRandomEvents {
				slog.Info("random event", "event", ev, "date", engine.DateLabel(r.State.DaysElapsed))
			}
		case engine.Victory:
			rec.conclude(r.Score, r.Condition.Name)
			return &r, nil
		}
	}
	return nil, nil
}

// recentRuns is how many ledger entries the report lists.
const recentRuns = 5

func reportRecent(db *persistence.DB, limit int) error {
	runs, err := db.RecentRuns(limit)
	if err != nil {
		return fmt.Errorf("recent runs: %w", err)
	}
	fmt.Println("\nRecent runs:")
	for _, r := range runs {
		fmt.Println("  " + runLine(r))
	}
	return nil
}

func runLine(r persistence.Run) string {
	line := fmt.Sprintf("%s  %s  seed %d  started %s", shortID(r.ID), r.Scenario, r.Seed, humanize.Time(r.StartedAt))
	if !r.ConcludedAt.Valid {
		return line + "  (unfinished)"
	}
	return fmt.Sprintf("%s  %s, $%s", line, r.Victory.String, humanize.CommafWithDigits(r.Score.Float64, 0))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func report(snap world.Snapshot, victory *engine.Victory) {
	cur := snap.Current
	fmt.Printf("\n%s, day %d (turn %d)\n", engine.DateLabel(cur.DaysElapsed), cur.DaysElapsed, snap.Turn())
	fmt.Printf("  infected now:   %s of %s\n", humanize.Comma(int64(cur.Indicators.NumInfected)), humanize.Comma(int64(cur.Indicators.TotalPopulation)))
	fmt.Printf("  total cases:    %s\n", humanize.Comma(int64(snap.CumulativeCases())))
	fmt.Printf("  cost this turn: $%s\n", humanize.CommafWithDigits(cur.Indicators.TotalCost, 0))

	if victory == nil {
		fmt.Printf("  running cost:   $%s\n", humanize.CommafWithDigits(snap.CumulativeCost(), 0))
		fmt.Println("Game not finished.")
		return
	}
	fmt.Printf("  final score:    $%s\n", humanize.CommafWithDigits(victory.Score, 0))
	fmt.Printf("Victory: %s\n", victory.Condition.Name)
}
