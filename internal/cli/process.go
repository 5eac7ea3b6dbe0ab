package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/particle"
	"github.com/hqding/Thermal-FIST/internal/store"
)

// ProcessOptions holds flags for the process command.
type ProcessOptions struct {
	*RootOptions
	DB      string // snapshot database; empty falls back to DECAYCHAIN_DB
	Metrics bool   // print resolver metrics to stderr
}

// ProcessResult summarizes one resolution pass.
type ProcessResult struct {
	Version              string         `json:"version"`
	Species              int            `json:"species"`
	DecayTypes           map[string]int `json:"decay_types"`
	DistributionCap      int            `json:"distribution_cap"`
	DistributionFeeddown string         `json:"distribution_feeddown"`
	Outcomes             int            `json:"outcomes"`
	RunID                string         `json:"run_id,omitempty"`
	DB                   string         `json:"db,omitempty"`
}

// WriteText implements textWriter.
func (r ProcessResult) WriteText(w io.Writer) {
	fmt.Fprintf(w, "✓ resolved %d species (version %s)\n", r.Species, r.Version)
	for _, t := range []particle.DecayType{particle.DecayStable, particle.DecayWeak, particle.DecayElectromagnetic, particle.DecayStrong} {
		fmt.Fprintf(w, "  %-16s %d\n", t, r.DecayTypes[t.String()])
	}
	fmt.Fprintf(w, "  distributions: %d outcomes (cap %d, %s feeddown)\n", r.Outcomes, r.DistributionCap, r.DistributionFeeddown)
	if r.RunID != "" {
		fmt.Fprintf(w, "  stored as run %s in %s\n", r.RunID, r.DB)
	}
}

// NewProcessCommand creates the process command.
func NewProcessCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProcessOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "process <catalogue>",
		Short: "Resolve every decay chain and optionally store the snapshot",
		Long: `Classify every species, fill channel properties, and resolve feeddown
tables, joint distributions and cumulants.

With --db (or DECAYCHAIN_DB) the snapshot is stored as a new run in a
SQLite database.

Examples:
  decaychain process hadrons.cue
  decaychain process hadrons.yaml --db snapshots.db --cap 500`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database to store the snapshot in")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print resolver metrics to stderr")

	return cmd
}

func runProcess(opts *ProcessOptions, path string, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	snap, err := s.process(path)
	if err != nil {
		return err
	}

	result := summarize(snap)

	dbPath := opts.DB
	if dbPath == "" {
		dbPath = s.cfg.DBPath
	}
	if dbPath != "" {
		runID, err := storeSnapshot(cmd, dbPath, snap)
		if err != nil {
			return s.formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		result.RunID = runID
		result.DB = dbPath
		s.formatter.VerboseLog("Stored run %s in %s", runID, dbPath)
	}

	if opts.Metrics {
		if err := s.recorder.WriteText(s.formatter.GetErrWriter()); err != nil {
			return err
		}
	}

	return s.formatter.Success(result)
}

func summarize(snap *decay.Snapshot) ProcessResult {
	cat := snap.Catalogue()
	result := ProcessResult{
		Version:              snap.Version,
		Species:              cat.Len(),
		DecayTypes:           make(map[string]int),
		DistributionCap:      snap.DistributionCap,
		DistributionFeeddown: snap.DistributionFeeddown.String(),
	}
	for i := 0; i < cat.Len(); i++ {
		result.DecayTypes[cat.Species(i).DecayType.String()]++
		if d, err := snap.FullFinalStateDistribution(i); err == nil {
			result.Outcomes += len(d)
		}
	}
	return result
}

func storeSnapshot(cmd *cobra.Command, dbPath string, snap *decay.Snapshot) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	run, err := st.WriteSnapshot(cmd.Context(), snap)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}
