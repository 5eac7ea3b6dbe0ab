package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// Report is the golden form of a scenario result. The catalogue version is
// left out so editing an unrelated species does not churn every golden file.
type Report struct {
	ScenarioName string  `json:"scenario_name"`
	Pass         bool    `json:"pass"`
	Checks       []Check `json:"checks"`
}

// toCanonicalMap converts a Report to a map[string]any for canonical JSON
// serialization, which only handles maps, slices and primitives.
func (r *Report) toCanonicalMap() map[string]any {
	checks := make([]any, len(r.Checks))
	for i, c := range r.Checks {
		checks[i] = map[string]any{
			"type":    c.Type,
			"subject": c.Subject,
			"actual":  c.Actual,
			"pass":    c.Pass,
		}
	}
	return map[string]any{
		"scenario_name": r.ScenarioName,
		"pass":          r.Pass,
		"checks":        checks,
	}
}

// MarshalReport renders the canonical JSON of a scenario result.
func MarshalReport(name string, result *Result) ([]byte, error) {
	report := Report{ScenarioName: name, Pass: result.Pass, Checks: result.Checks}
	return particle.MarshalCanonical(report.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its report against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the report doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalReport(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
