package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/particle"
	"github.com/hqding/Thermal-FIST/internal/store"
)

// FeeddownOptions holds flags for the feeddown command.
type FeeddownOptions struct {
	*RootOptions
	Feeddown string // classification name; empty uses DECAYCHAIN_FEEDDOWN
	To       bool   // list sources feeding the species instead of its products
	DB       string // read the table from the latest stored run when present
}

// FeeddownResult is one row or column of a feeddown table.
type FeeddownResult struct {
	Species  string        `json:"species"`
	Feeddown string        `json:"feeddown"`
	To       bool          `json:"to"`
	Source   string        `json:"source"` // "computed" or the run id read from
	Rows     []FeeddownRow `json:"rows"`
}

// FeeddownRow is one contribution.
type FeeddownRow struct {
	Species string  `json:"species"`
	PDG     int64   `json:"pdg"`
	Mean    float64 `json:"mean"`
}

// WriteText implements textWriter.
func (r FeeddownResult) WriteText(w io.Writer) {
	if r.To {
		fmt.Fprintf(w, "%s feeddown into %s:\n", r.Feeddown, r.Species)
	} else {
		fmt.Fprintf(w, "%s feeddown from %s:\n", r.Feeddown, r.Species)
	}
	for _, row := range r.Rows {
		fmt.Fprintf(w, "  %-16s %12d  %.6g\n", row.Species, row.PDG, row.Mean)
	}
}

// NewFeeddownCommand creates the feeddown command.
func NewFeeddownCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FeeddownOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "feeddown <catalogue> <species>",
		Short: "Show mean final-state yields of one species",
		Long: `Show the mean number of each final species produced per decay of a
species, following decays allowed by the chosen classification.

The species is given by name or PDG identifier.

Examples:
  decaychain feeddown hadrons.cue Sigma*+ --feeddown weak
  decaychain feeddown hadrons.cue 211 --to --feeddown strong`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeeddown(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Feeddown, "feeddown", "", "classification: stability, strong, em, weak")
	cmd.Flags().BoolVar(&opts.To, "to", false, "list sources feeding the species")
	cmd.Flags().StringVar(&opts.DB, "db", "", "read from the latest stored run of this catalogue")

	return cmd
}

func runFeeddown(opts *FeeddownOptions, path, speciesArg string, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	name := opts.Feeddown
	if name == "" {
		name = s.cfg.Feeddown
	}
	fd, ok := particle.ParseFeeddown(name)
	if !ok {
		return s.formatter.Fail(ExitCommandError, ErrCodeConfig,
			fmt.Sprintf("unknown feeddown %q (want stability, strong, em, weak)", name), nil)
	}

	cat, err := s.loadCatalogue(path)
	if err != nil {
		return err
	}
	idx, err := s.species(cat, speciesArg)
	if err != nil {
		return err
	}

	result := FeeddownResult{Species: cat.Species(idx).Name, Feeddown: fd.String(), To: opts.To}

	var contributions []decay.Contribution
	if opts.DB != "" {
		contributions, result.Source, err = storedFeeddown(cmd, opts.DB, cat.Version(), fd, idx, opts.To)
		if err != nil {
			return s.formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
	}
	if result.Source == "" {
		snap, err := s.resolver().ProcessDecays(cat)
		if err != nil {
			return s.formatter.Fail(ExitCommandError, ErrCodeIntegrity, err.Error(), nil)
		}
		table := snap.Feeddown(fd)
		if opts.To {
			contributions = table.ContributionsTo(idx)
		} else {
			contributions = table.Contributions(idx)
		}
		result.Source = "computed"
	}

	for _, c := range contributions {
		sp := cat.Species(c.Species)
		result.Rows = append(result.Rows, FeeddownRow{Species: sp.Name, PDG: sp.PDG, Mean: c.Mean})
	}
	return s.formatter.Success(result)
}

// storedFeeddown reads a feeddown row or column from the latest run of
// version. It returns an empty source when the version was never stored.
func storedFeeddown(cmd *cobra.Command, dbPath, version string, fd particle.Feeddown, idx int, to bool) ([]decay.Contribution, string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, "", err
	}
	defer st.Close()

	ctx := cmd.Context()
	run, err := st.LatestRun(ctx, version)
	if errors.Is(err, store.ErrRunNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	var rows []decay.Contribution
	if to {
		rows, err = st.ReadFeeddownTo(ctx, run.ID, fd, idx)
	} else {
		rows, err = st.ReadFeeddown(ctx, run.ID, fd, idx)
	}
	if err != nil {
		return nil, "", err
	}
	return rows, run.ID, nil
}
