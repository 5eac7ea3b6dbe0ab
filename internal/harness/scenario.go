package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// DefaultTolerance is the absolute tolerance for numeric assertions that
// set none.
const DefaultTolerance = 1e-9

// Scenario defines a conformance test scenario: one catalogue, the resolver
// settings to process it with, and the values the resolved tables must hold.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalogue is the path to a .cue, .yaml or .yml catalogue, or a CUE
	// package directory. Relative paths resolve against the scenario file.
	Catalogue string `yaml:"catalogue"`

	// Antiparticles generates conjugates of every listed species.
	Antiparticles bool `yaml:"antiparticles,omitempty"`

	// MassCut drops species heavier than this many GeV.
	MassCut float64 `yaml:"mass_cut,omitempty"`

	// DistributionCap overrides the outcome cap. Zero keeps the default;
	// negative disables truncation.
	DistributionCap int `yaml:"distribution_cap,omitempty"`

	// DistributionFeeddown names the classification for distributions,
	// probabilities and cumulants. Empty means "stability".
	DistributionFeeddown string `yaml:"distribution_feeddown,omitempty"`

	// Tolerance is the default absolute tolerance for numeric assertions.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Assertions validate the resolved tables.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one value of the resolved tables.
type Assertion struct {
	// Type specifies the assertion type:
	// - "feeddown_mean": mean yield of Target per decay of Source
	// - "probability": probability that one decay of Source yields Value
	//   copies of Target, or a total of Value along Charge
	// - "cumulant": cumulant of the given Order of the count of Target
	// - "distribution_size": number of outcomes in Source's joint distribution
	// - "decay_type": classification of Source
	Type string `yaml:"type"`

	// Source is the decaying species, by name.
	Source string `yaml:"source"`

	// Target is the final species, by name.
	Target string `yaml:"target,omitempty"`

	// Feeddown names the classification (used by feeddown_mean).
	Feeddown string `yaml:"feeddown,omitempty"`

	// Charge names the axis (used by probability instead of Target).
	Charge string `yaml:"charge,omitempty"`

	// Value is the count or charge total (used by probability).
	Value int `yaml:"value,omitempty"`

	// Order is the cumulant order, 1 to 4 (used by cumulant).
	Order int `yaml:"order,omitempty"`

	// Expect is the expected number.
	Expect float64 `yaml:"expect"`

	// Is is the expected decay type name (used by decay_type).
	Is string `yaml:"is,omitempty"`

	// Tolerance overrides the scenario tolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Assertion type constants.
const (
	AssertFeeddownMean     = "feeddown_mean"
	AssertProbability      = "probability"
	AssertCumulant         = "cumulant"
	AssertDistributionSize = "distribution_size"
	AssertDecayType        = "decay_type"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The catalogue path is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Catalogue != "" && !filepath.IsAbs(scenario.Catalogue) {
		scenario.Catalogue = filepath.Join(filepath.Dir(path), scenario.Catalogue)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every .yaml and .yml scenario in dir, sorted by file
// name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Catalogue == "" {
		return fmt.Errorf("catalogue is required")
	}

	if _, err := os.Stat(s.Catalogue); os.IsNotExist(err) {
		return fmt.Errorf("catalogue not found: %s", s.Catalogue)
	}

	if s.DistributionFeeddown != "" {
		if _, ok := particle.ParseFeeddown(s.DistributionFeeddown); !ok {
			return fmt.Errorf("unknown distribution_feeddown %q", s.DistributionFeeddown)
		}
	}

	if s.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Source == "" {
		return fmt.Errorf("assertions[%d]: source is required", index)
	}

	switch a.Type {
	case AssertFeeddownMean:
		if a.Target == "" {
			return fmt.Errorf("assertions[%d]: target is required for feeddown_mean", index)
		}
		if _, ok := particle.ParseFeeddown(a.Feeddown); !ok {
			return fmt.Errorf("assertions[%d]: unknown feeddown %q", index, a.Feeddown)
		}
	case AssertProbability:
		if (a.Target == "") == (a.Charge == "") {
			return fmt.Errorf("assertions[%d]: probability needs exactly one of target or charge", index)
		}
		if a.Charge != "" {
			if _, ok := particle.ParseChargeAxis(a.Charge); !ok {
				return fmt.Errorf("assertions[%d]: unknown charge axis %q", index, a.Charge)
			}
		}
	case AssertCumulant:
		if a.Target == "" {
			return fmt.Errorf("assertions[%d]: target is required for cumulant", index)
		}
		if a.Order < 1 || a.Order > 4 {
			return fmt.Errorf("assertions[%d]: order must be 1 to 4, got %d", index, a.Order)
		}
	case AssertDistributionSize:
	case AssertDecayType:
		if a.Is == "" {
			return fmt.Errorf("assertions[%d]: is is required for decay_type", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Tolerance < 0 {
		return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
	}

	return nil
}
