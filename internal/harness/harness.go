package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hqding/Thermal-FIST/internal/catalog"
	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/particle"
	"github.com/hqding/Thermal-FIST/internal/store"
	"github.com/hqding/Thermal-FIST/internal/testutil"
)

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database with predictable
// run ids, so identical scenarios give identical results.
//
// Execution flow:
// 1. Load and build the catalogue
// 2. Resolve it with the scenario's cap and distribution feeddown
// 3. Store the snapshot in an in-memory database
// 4. Evaluate assertions against the snapshot and the stored run
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cat, err := catalog.Load(scenario.Catalogue, catalog.Options{
		Antiparticles: scenario.Antiparticles,
		MassCut:       scenario.MassCut,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogue: %w", err)
	}

	snap, err := decay.NewResolver(resolverOptions(scenario, logger)...).ProcessDecays(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to process decays: %w", err)
	}

	st, err := store.Open(":memory:", store.WithRunIDGenerator(testutil.NewRunIDs(scenario.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	run, err := st.WriteSnapshot(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	tol := scenario.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}

	result := NewResult()
	result.CatalogueVersion = snap.Version
	EvaluateAssertions(result, snap, scenario.Assertions, &AssertionContext{
		Ctx:       ctx,
		Store:     st,
		RunID:     run.ID,
		Tolerance: tol,
	})

	return result, nil
}

func resolverOptions(scenario *Scenario, logger *slog.Logger) []decay.Option {
	opts := []decay.Option{decay.WithLogger(logger)}
	if scenario.DistributionCap != 0 {
		opts = append(opts, decay.WithDistributionCap(scenario.DistributionCap))
	}
	if fd, ok := particle.ParseFeeddown(scenario.DistributionFeeddown); ok {
		opts = append(opts, decay.WithDistributionFeeddown(fd))
	}
	return opts
}
