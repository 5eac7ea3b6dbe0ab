package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// CheckResult holds the integrity findings for one catalogue.
type CheckResult struct {
	Valid      bool        `json:"valid"`
	Version    string      `json:"version"`
	Species    int         `json:"species"`
	Violations []Violation `json:"violations,omitempty"`
}

// Violation is one failed conservation, mass-ordering or cycle check.
// Channel is -1 for cycles.
type Violation struct {
	Code    string `json:"code"`
	Species string `json:"species"`
	Channel int    `json:"channel"`
	Message string `json:"message"`
}

// WriteText implements textWriter.
func (r CheckResult) WriteText(w io.Writer) {
	if r.Valid {
		fmt.Fprintf(w, "✓ %d species, all channels conserve charges and decay to lighter daughters\n", r.Species)
		fmt.Fprintf(w, "  version %s\n", r.Version)
		return
	}
	fmt.Fprintf(w, "✗ %d violation(s) in %d species\n", len(r.Violations), r.Species)
	for _, v := range r.Violations {
		fmt.Fprintf(w, "  [%s] %s channel %d: %s\n", v.Code, v.Species, v.Channel, v.Message)
	}
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <catalogue>",
		Short: "Check charge conservation and mass ordering",
		Long: `Check every decay channel of a catalogue.

Each channel must conserve baryon number, electric charge, strangeness and
charm, and every daughter must be strictly lighter than its parent. No
species may decay, directly or through a chain, back into itself.

Exit codes:
  0 - Catalogue consistent
  1 - Violations found
  2 - Command error (catalogue not found or malformed)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	cat, err := s.loadCatalogue(path)
	if err != nil {
		return err
	}

	result := CheckResult{Valid: true, Version: cat.Version(), Species: cat.Len()}
	errs := flatten(cat.Validate())
	for _, cycle := range cat.DecayCycles() {
		errs = append(errs, cycle.Error(cat))
	}
	for _, e := range errs {
		var ie *particle.IntegrityError
		if !errors.As(e, &ie) {
			continue
		}
		result.Valid = false
		result.Violations = append(result.Violations, Violation{
			Code:    string(ie.Code),
			Species: cat.Species(ie.Species).Name,
			Channel: ie.Channel,
			Message: ie.Message,
		})
	}

	if err := s.formatter.Success(result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d integrity violation(s)", len(result.Violations)))
	}
	return nil
}

// flatten expands an errors.Join result into its parts.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
