package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// CumulantsResult lists the cumulants of every final species of one decay.
type CumulantsResult struct {
	Species  string         `json:"species"`
	Feeddown string         `json:"feeddown"`
	Rows     []CumulantsRow `json:"rows"`
}

// CumulantsRow holds κ1..κ4 of the count of one final species.
type CumulantsRow struct {
	Species   string     `json:"species"`
	Cumulants [4]float64 `json:"cumulants"`
}

// WriteText implements textWriter.
func (r CumulantsResult) WriteText(w io.Writer) {
	fmt.Fprintf(w, "cumulants per decay of %s (%s feeddown):\n", r.Species, r.Feeddown)
	fmt.Fprintf(w, "  %-16s %12s %12s %12s %12s\n", "species", "k1", "k2", "k3", "k4")
	for _, row := range r.Rows {
		k := row.Cumulants
		fmt.Fprintf(w, "  %-16s %12.6g %12.6g %12.6g %12.6g\n", row.Species, k[0], k[1], k[2], k[3])
	}
}

// NewCumulantsCommand creates the cumulants command.
func NewCumulantsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cumulants <catalogue> <species>",
		Short: "Show cumulants of final-state counts of one species",
		Long: `Show the first four cumulants of the number of each final species
produced by one decay of a species. Cumulants are exact: they do not
depend on the distribution cap.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCumulants(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runCumulants(opts *RootOptions, path, speciesArg string, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	snap, err := s.process(path)
	if err != nil {
		return err
	}
	cat := snap.Catalogue()
	idx, err := s.species(cat, speciesArg)
	if err != nil {
		return err
	}

	rows, err := snap.Cumulants(idx)
	if err != nil {
		return s.formatter.Fail(ExitCommandError, ErrCodeUnknownSpecies, err.Error(), nil)
	}

	result := CumulantsResult{Species: cat.Species(idx).Name, Feeddown: snap.DistributionFeeddown.String()}
	for _, tc := range rows {
		result.Rows = append(result.Rows, CumulantsRow{
			Species:   cat.Species(tc.Species).Name,
			Cumulants: tc.Cumulants,
		})
	}
	return s.formatter.Success(result)
}
