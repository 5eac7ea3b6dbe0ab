package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Cap overrides DECAYCHAIN_DISTRIBUTION_CAP when CapSet is true.
	Cap    int
	CapSet bool

	// MassCut drops species heavier than this many GeV. Zero keeps all.
	MassCut float64

	// Antiparticles generates conjugates of every listed species.
	Antiparticles bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the decaychain CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "decaychain",
		Short: "Resolve resonance decay chains",
		Long: `Resolve resonance decay chains of a hadron catalogue into final-state
yields, probability distributions and cumulants.

Settings come from DECAYCHAIN_* environment variables; flags override them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.CapSet = cmd.Flags().Changed("cap")
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().IntVar(&opts.Cap, "cap", 0, "distribution outcome cap (<= 0 disables truncation)")
	cmd.PersistentFlags().Float64Var(&opts.MassCut, "mass-cut", 0, "drop species heavier than this many GeV")
	cmd.PersistentFlags().BoolVar(&opts.Antiparticles, "antiparticles", false, "generate antiparticles")

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewProcessCommand(opts))
	cmd.AddCommand(NewFeeddownCommand(opts))
	cmd.AddCommand(NewDistributionCommand(opts))
	cmd.AddCommand(NewCumulantsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
