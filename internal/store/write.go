package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/particle"
)

// Run describes one stored snapshot.
type Run struct {
	ID                   string
	CatalogueVersion     string
	DistributionCap      int
	DistributionFeeddown particle.Feeddown
	SpeciesCount         int
	Seq                  int64
}

// WriteSnapshot stores every table of snap under a fresh run and returns
// that run. The write is a single transaction: a failed write leaves no
// partial run behind.
//
// Runs are ordered by seq, a logical counter local to the database, never by
// wall time.
func (s *Store) WriteSnapshot(ctx context.Context, snap *decay.Snapshot) (Run, error) {
	cat := snap.Catalogue()
	run := Run{
		ID:                   s.ids.Generate(),
		CatalogueVersion:     snap.Version,
		DistributionCap:      snap.DistributionCap,
		DistributionFeeddown: snap.DistributionFeeddown,
		SpeciesCount:         cat.Len(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write snapshot: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("write snapshot: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, catalogue_version, distribution_cap, distribution_feeddown, species_count, seq)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CatalogueVersion,
		run.DistributionCap,
		run.DistributionFeeddown.String(),
		run.SpeciesCount,
		run.Seq,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write snapshot: insert run: %w", err)
	}

	if err := writeSpecies(ctx, tx, run.ID, cat); err != nil {
		return Run{}, fmt.Errorf("write snapshot: %w", err)
	}
	for _, fd := range particle.AllFeeddowns {
		if err := writeFeeddown(ctx, tx, run.ID, snap.Feeddown(fd)); err != nil {
			return Run{}, fmt.Errorf("write snapshot: %w", err)
		}
	}
	if err := writeCumulants(ctx, tx, run.ID, snap); err != nil {
		return Run{}, fmt.Errorf("write snapshot: %w", err)
	}
	if err := writeDistributions(ctx, tx, run.ID, snap); err != nil {
		return Run{}, fmt.Errorf("write snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write snapshot: commit: %w", err)
	}
	return run, nil
}

func writeSpecies(ctx context.Context, tx *sql.Tx, runID string, cat *particle.Catalogue) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO species (run_id, idx, pdg, name, mass, width, decay_type, stable)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("insert species: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < cat.Len(); i++ {
		sp := cat.Species(i)
		if _, err := stmt.ExecContext(ctx, runID, i, sp.PDG, sp.Name, sp.Mass, sp.Width, sp.DecayType.String(), sp.Stable); err != nil {
			return fmt.Errorf("insert species %q: %w", sp.Name, err)
		}
	}
	return nil
}

func writeFeeddown(ctx context.Context, tx *sql.Tx, runID string, table *decay.FeeddownTable) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO feeddown (run_id, classification, source, target, mean)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("insert feeddown: %w", err)
	}
	defer stmt.Close()

	fd := table.Feeddown.String()
	for source := 0; source < table.Len(); source++ {
		for _, c := range table.Contributions(source) {
			if _, err := stmt.ExecContext(ctx, runID, fd, source, c.Species, c.Mean); err != nil {
				return fmt.Errorf("insert feeddown %s %d->%d: %w", fd, source, c.Species, err)
			}
		}
	}
	return nil
}

func writeCumulants(ctx context.Context, tx *sql.Tx, runID string, snap *decay.Snapshot) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cumulants (run_id, source, target, k1, k2, k3, k4)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("insert cumulants: %w", err)
	}
	defer stmt.Close()

	for source := 0; source < snap.Catalogue().Len(); source++ {
		row, err := snap.Cumulants(source)
		if err != nil {
			return err
		}
		for _, tc := range row {
			k := tc.Cumulants
			if _, err := stmt.ExecContext(ctx, runID, source, tc.Species, k[0], k[1], k[2], k[3]); err != nil {
				return fmt.Errorf("insert cumulants %d->%d: %w", source, tc.Species, err)
			}
		}
	}
	return nil
}

func writeDistributions(ctx context.Context, tx *sql.Tx, runID string, snap *decay.Snapshot) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO distributions (run_id, species, outcomes)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("insert distributions: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < snap.Catalogue().Len(); i++ {
		d, err := snap.FullFinalStateDistribution(i)
		if err != nil {
			return err
		}
		outcomes, err := marshalDistribution(d)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, i, outcomes); err != nil {
			return fmt.Errorf("insert distribution %d: %w", i, err)
		}
	}
	return nil
}
