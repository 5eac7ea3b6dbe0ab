package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/particle"
)

// ErrRunNotFound is returned when no stored run matches a lookup.
var ErrRunNotFound = errors.New("run not found")

// SpeciesRow is the stored summary of one catalogue entry.
type SpeciesRow struct {
	Index     int
	PDG       int64
	Name      string
	Mass      float64
	Width     float64
	DecayType string
	Stable    bool
}

const runColumns = `id, catalogue_version, distribution_cap, distribution_feeddown, species_count, seq`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var (
		r  Run
		fd string
	)
	if err := row.Scan(&r.ID, &r.CatalogueVersion, &r.DistributionCap, &fd, &r.SpeciesCount, &r.Seq); err != nil {
		return Run{}, err
	}
	parsed, ok := particle.ParseFeeddown(fd)
	if !ok {
		return Run{}, fmt.Errorf("run %s: unknown feeddown %q", r.ID, fd)
	}
	r.DistributionFeeddown = parsed
	return r, nil
}

// LatestRun returns the most recent run stored for a catalogue version.
// Returns ErrRunNotFound if the version was never stored.
func (s *Store) LatestRun(ctx context.Context, version string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE catalogue_version = ?
		ORDER BY seq DESC
		LIMIT 1
	`, version)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: version %s", ErrRunNotFound, version)
	}
	if err != nil {
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	return r, nil
}

// ReadRun returns the run with the given id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	return r, nil
}

// ListRuns returns every stored run in seq order.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ReadSpecies returns the species of a run in index order.
func (s *Store) ReadSpecies(ctx context.Context, runID string) ([]SpeciesRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, pdg, name, mass, width, decay_type, stable
		FROM species
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read species: %w", err)
	}
	defer rows.Close()

	var out []SpeciesRow
	for rows.Next() {
		var sp SpeciesRow
		if err := rows.Scan(&sp.Index, &sp.PDG, &sp.Name, &sp.Mass, &sp.Width, &sp.DecayType, &sp.Stable); err != nil {
			return nil, fmt.Errorf("read species: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// ReadFeeddown returns the feeddown row of source, ordered by target.
func (s *Store) ReadFeeddown(ctx context.Context, runID string, fd particle.Feeddown, source int) ([]decay.Contribution, error) {
	return s.queryContributions(ctx, `
		SELECT target, mean
		FROM feeddown
		WHERE run_id = ? AND classification = ? AND source = ?
		ORDER BY target ASC
	`, runID, fd.String(), source)
}

// ReadFeeddownTo returns the sources feeding target, ordered by source.
func (s *Store) ReadFeeddownTo(ctx context.Context, runID string, fd particle.Feeddown, target int) ([]decay.Contribution, error) {
	return s.queryContributions(ctx, `
		SELECT source, mean
		FROM feeddown
		WHERE run_id = ? AND classification = ? AND target = ?
		ORDER BY source ASC
	`, runID, fd.String(), target)
}

func (s *Store) queryContributions(ctx context.Context, query string, args ...any) ([]decay.Contribution, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read feeddown: %w", err)
	}
	defer rows.Close()

	var out []decay.Contribution
	for rows.Next() {
		var c decay.Contribution
		if err := rows.Scan(&c.Species, &c.Mean); err != nil {
			return nil, fmt.Errorf("read feeddown: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ReadCumulants returns the cumulants row of source, ordered by target.
func (s *Store) ReadCumulants(ctx context.Context, runID string, source int) ([]decay.TargetCumulants, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT target, k1, k2, k3, k4
		FROM cumulants
		WHERE run_id = ? AND source = ?
		ORDER BY target ASC
	`, runID, source)
	if err != nil {
		return nil, fmt.Errorf("read cumulants: %w", err)
	}
	defer rows.Close()

	var out []decay.TargetCumulants
	for rows.Next() {
		var tc decay.TargetCumulants
		k := &tc.Cumulants
		if err := rows.Scan(&tc.Species, &k[0], &k[1], &k[2], &k[3]); err != nil {
			return nil, fmt.Errorf("read cumulants: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// ReadDistribution returns the joint final-state distribution of species.
// Returns ErrRunNotFound if the run holds no such species.
func (s *Store) ReadDistribution(ctx context.Context, runID string, species int) (decay.Distribution, error) {
	var outcomes string
	err := s.db.QueryRowContext(ctx, `
		SELECT outcomes FROM distributions WHERE run_id = ? AND species = ?
	`, runID, species).Scan(&outcomes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s species %d", ErrRunNotFound, runID, species)
	}
	if err != nil {
		return nil, fmt.Errorf("read distribution: %w", err)
	}
	return unmarshalDistribution(outcomes)
}
