package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/particle"
)

// DistributionOptions holds flags for the distribution command.
type DistributionOptions struct {
	*RootOptions
	Target string // species whose count is distributed
	Charge string // charge axis whose total is distributed
	Top    int    // joint outcomes to print; <= 0 prints all
}

// DistributionResult is a joint distribution or one of its projections.
type DistributionResult struct {
	Species  string        `json:"species"`
	Feeddown string        `json:"feeddown"`
	Target   string        `json:"target,omitempty"`
	Charge   string        `json:"charge,omitempty"`
	Points   []decay.Point `json:"points,omitempty"`
	Outcomes []OutcomeRow  `json:"outcomes,omitempty"`
	Total    int           `json:"total_outcomes,omitempty"`
}

// OutcomeRow is one final state with species names.
type OutcomeRow struct {
	Probability float64    `json:"p"`
	Counts      []CountRow `json:"counts"`
}

// CountRow is the count of one named species.
type CountRow struct {
	Species string `json:"species"`
	N       int    `json:"n"`
}

// WriteText implements textWriter.
func (r DistributionResult) WriteText(w io.Writer) {
	switch {
	case r.Target != "":
		fmt.Fprintf(w, "P(N_%s) per decay of %s (%s feeddown):\n", r.Target, r.Species, r.Feeddown)
	case r.Charge != "":
		fmt.Fprintf(w, "P(%s) per decay of %s (%s feeddown):\n", r.Charge, r.Species, r.Feeddown)
	default:
		fmt.Fprintf(w, "final states of %s (%s feeddown), %d of %d outcomes:\n", r.Species, r.Feeddown, len(r.Outcomes), r.Total)
	}
	for _, p := range r.Points {
		fmt.Fprintf(w, "  %4d  %.6g\n", p.Value, p.Probability)
	}
	for _, o := range r.Outcomes {
		parts := make([]string, len(o.Counts))
		for i, c := range o.Counts {
			if c.N == 1 {
				parts[i] = c.Species
			} else {
				parts[i] = fmt.Sprintf("%d %s", c.N, c.Species)
			}
		}
		fmt.Fprintf(w, "  %.6g  %s\n", o.Probability, strings.Join(parts, " + "))
	}
}

// NewDistributionCommand creates the distribution command.
func NewDistributionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DistributionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "distribution <catalogue> <species>",
		Short: "Show final-state probability distributions of one species",
		Long: `Show the joint final-state distribution of one decay of a species, or,
with --target, the distribution of the count of one final species, or,
with --charge, the distribution of the summed charge along an axis
(baryon, charge, strangeness, charm, positive, negative, charged).

Joint distributions are truncated to --cap outcomes; target and charge
distributions are exact.

Examples:
  decaychain distribution hadrons.cue omega
  decaychain distribution hadrons.cue omega --target pi0
  decaychain distribution hadrons.cue Sigma*+ --charge charged`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDistribution(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Target, "target", "", "distribute the count of this species")
	cmd.Flags().StringVar(&opts.Charge, "charge", "", "distribute the total along this charge axis")
	cmd.Flags().IntVar(&opts.Top, "top", 20, "joint outcomes to print (<= 0 prints all)")
	cmd.MarkFlagsMutuallyExclusive("target", "charge")

	return cmd
}

func runDistribution(opts *DistributionOptions, path, speciesArg string, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	var axis particle.ChargeAxis
	if opts.Charge != "" {
		var ok bool
		if axis, ok = particle.ParseChargeAxis(opts.Charge); !ok {
			return s.formatter.Fail(ExitCommandError, ErrCodeConfig,
				fmt.Sprintf("unknown charge axis %q", opts.Charge), nil)
		}
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

	result := DistributionResult{Species: cat.Species(idx).Name, Feeddown: snap.DistributionFeeddown.String()}

	switch {
	case opts.Target != "":
		target, err := s.species(cat, opts.Target)
		if err != nil {
			return err
		}
		result.Target = cat.Species(target).Name
		if result.Points, err = snap.DecayProbabilityVector(idx, target); err != nil {
			return s.formatter.Fail(ExitCommandError, ErrCodeIntegrity, err.Error(), nil)
		}

	case opts.Charge != "":
		result.Charge = axis.String()
		if result.Points, err = snap.DecayProbabilityVectorByCharge(idx, axis); err != nil {
			return s.formatter.Fail(ExitCommandError, ErrCodeIntegrity, err.Error(), nil)
		}

	default:
		d, err := snap.FullFinalStateDistribution(idx)
		if err != nil {
			return s.formatter.Fail(ExitCommandError, ErrCodeUnknownSpecies, err.Error(), nil)
		}
		result.Total = len(d)
		if opts.Top > 0 && len(d) > opts.Top {
			d = d[:opts.Top]
		}
		result.Outcomes = namedOutcomes(cat, d)
	}

	return s.formatter.Success(result)
}

func namedOutcomes(cat *particle.Catalogue, d decay.Distribution) []OutcomeRow {
	rows := make([]OutcomeRow, len(d))
	for i, o := range d {
		counts := make([]CountRow, len(o.Counts))
		for j, c := range o.Counts {
			counts[j] = CountRow{Species: cat.Species(c.Species).Name, N: c.N}
		}
		rows[i] = OutcomeRow{Probability: o.Probability, Counts: counts}
	}
	return rows
}
