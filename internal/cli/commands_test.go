package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Valid(t *testing.T) {
	stdout, _, err := execute(t, "check", hadronsCatalogue, "--format", "json")
	require.NoError(t, err)

	var result CheckResult
	decodeData(t, stdout, &result)
	assert.True(t, result.Valid)
	assert.Equal(t, 11, result.Species)
	assert.Len(t, result.Version, 64)
	assert.Empty(t, result.Violations)
}

func TestCheck_Violation(t *testing.T) {
	stdout, _, err := execute(t, "check", "testdata/charge_violation.yaml", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result CheckResult
	decodeData(t, stdout, &result)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "CHARGE_NOT_CONSERVED", result.Violations[0].Code)
	assert.Equal(t, "rho0", result.Violations[0].Species)
	assert.Equal(t, 1, result.Violations[0].Channel)
}

func TestCheck_Text(t *testing.T) {
	stdout, _, err := execute(t, "check", "testdata/charge_violation.yaml")
	require.Error(t, err)
	assert.Contains(t, stdout, "✗ 1 violation(s)")
	assert.Contains(t, stdout, "[CHARGE_NOT_CONSERVED] rho0 channel 1")
}

func TestCheck_MissingCatalogue(t *testing.T) {
	stdout, _, err := execute(t, "check", "testdata/nope.yaml", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "E005", decodeError(t, stdout).Code)
}

func TestProcess_StoresRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, err := execute(t, "process", hadronsCatalogue, "--db", db, "--format", "json")
	require.NoError(t, err)

	var result ProcessResult
	decodeData(t, stdout, &result)
	assert.Equal(t, 11, result.Species)
	assert.Equal(t, 1000, result.DistributionCap)
	assert.Equal(t, "stability", result.DistributionFeeddown)
	assert.Equal(t, 1, result.DecayTypes["weak"])
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, db, result.DB)

	_, err = os.Stat(db)
	assert.NoError(t, err)
}

func TestProcess_CapAndMetrics(t *testing.T) {
	stdout, stderr, err := execute(t, "process", hadronsCatalogue, "--cap", "1", "--metrics", "--format", "json")
	require.NoError(t, err)

	var result ProcessResult
	decodeData(t, stdout, &result)
	assert.Equal(t, 1, result.DistributionCap)
	assert.Empty(t, result.RunID)
	assert.Contains(t, stderr, "decaychain_truncations_total")
}

func TestProcess_MassCut(t *testing.T) {
	stdout, _, err := execute(t, "process", hadronsCatalogue, "--mass-cut", "1", "--format", "json")
	require.NoError(t, err)

	var result ProcessResult
	decodeData(t, stdout, &result)
	// Lambda, Delta++ and Sigma*+ are heavier than 1 GeV.
	assert.Equal(t, 8, result.Species)
}

func findRow(rows []FeeddownRow, species string) (FeeddownRow, bool) {
	for _, r := range rows {
		if r.Species == species {
			return r, true
		}
	}
	return FeeddownRow{}, false
}

func TestFeeddown_Computed(t *testing.T) {
	stdout, _, err := execute(t, "feeddown", hadronsCatalogue, "Sigma*+", "--feeddown", "weak", "--format", "json")
	require.NoError(t, err)

	var result FeeddownResult
	decodeData(t, stdout, &result)
	assert.Equal(t, "computed", result.Source)
	assert.Equal(t, "weak", result.Feeddown)

	p, ok := findRow(result.Rows, "p")
	require.True(t, ok)
	assert.InDelta(t, 0.64, p.Mean, 1e-12)
	assert.Equal(t, int64(2212), p.PDG)

	_, ok = findRow(result.Rows, "Lambda")
	assert.False(t, ok, "Lambda decays under weak feeddown")
}

func TestFeeddown_ByPDGAndTo(t *testing.T) {
	stdout, _, err := execute(t, "feeddown", hadronsCatalogue, "2212", "--to", "--feeddown", "weak", "--format", "json")
	require.NoError(t, err)

	var result FeeddownResult
	decodeData(t, stdout, &result)
	assert.True(t, result.To)
	assert.Equal(t, "p", result.Species)

	lambda, ok := findRow(result.Rows, "Lambda")
	require.True(t, ok)
	assert.InDelta(t, 0.64, lambda.Mean, 1e-12)

	delta, ok := findRow(result.Rows, "Delta++")
	require.True(t, ok)
	assert.InDelta(t, 1, delta.Mean, 1e-12)
}

func TestFeeddown_FromStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, err := execute(t, "process", hadronsCatalogue, "--db", db, "--format", "json")
	require.NoError(t, err)
	var processed ProcessResult
	decodeData(t, stdout, &processed)

	stdout, _, err = execute(t, "feeddown", hadronsCatalogue, "Sigma*+", "--feeddown", "weak", "--db", db, "--format", "json")
	require.NoError(t, err)

	var result FeeddownResult
	decodeData(t, stdout, &result)
	assert.Equal(t, processed.RunID, result.Source)
	p, ok := findRow(result.Rows, "p")
	require.True(t, ok)
	assert.InDelta(t, 0.64, p.Mean, 1e-12)
}

func TestFeeddown_EmptyStoreComputes(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, err := execute(t, "feeddown", hadronsCatalogue, "omega", "--db", db, "--format", "json")
	require.NoError(t, err)

	var result FeeddownResult
	decodeData(t, stdout, &result)
	assert.Equal(t, "computed", result.Source)
}

func TestFeeddown_UnknownClassification(t *testing.T) {
	stdout, _, err := execute(t, "feeddown", hadronsCatalogue, "omega", "--feeddown", "hadronic", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeConfig, decodeError(t, stdout).Code)
}

func TestFeeddown_Text(t *testing.T) {
	stdout, _, err := execute(t, "feeddown", hadronsCatalogue, "rho0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "stability feeddown from rho0:")
	assert.Contains(t, stdout, "pi+")
}

func TestDistribution_Joint(t *testing.T) {
	stdout, _, err := execute(t, "distribution", hadronsCatalogue, "omega", "--format", "json")
	require.NoError(t, err)

	var result DistributionResult
	decodeData(t, stdout, &result)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Outcomes, 2)
	assert.InDelta(t, 0.9, result.Outcomes[0].Probability, 1e-12)
	assert.Len(t, result.Outcomes[0].Counts, 3)
	assert.InDelta(t, 0.1, result.Outcomes[1].Probability, 1e-12)
}

func TestDistribution_Top(t *testing.T) {
	stdout, _, err := execute(t, "distribution", hadronsCatalogue, "omega", "--top", "1", "--format", "json")
	require.NoError(t, err)

	var result DistributionResult
	decodeData(t, stdout, &result)
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.Outcomes, 1)
}

func TestDistribution_Target(t *testing.T) {
	stdout, _, err := execute(t, "distribution", hadronsCatalogue, "omega", "--target", "pi0", "--format", "json")
	require.NoError(t, err)

	var result DistributionResult
	decodeData(t, stdout, &result)
	assert.Equal(t, "pi0", result.Target)

	var total float64
	for _, p := range result.Points {
		total += p.Probability
		if p.Value == 1 {
			assert.InDelta(t, 1, p.Probability, 1e-12)
		}
	}
	assert.InDelta(t, 1, total, 1e-12)
}

func TestDistribution_Charge(t *testing.T) {
	stdout, _, err := execute(t, "distribution", hadronsCatalogue, "omega", "--charge", "charged", "--format", "json")
	require.NoError(t, err)

	var result DistributionResult
	decodeData(t, stdout, &result)
	assert.Equal(t, "charged", result.Charge)

	found := false
	for _, p := range result.Points {
		if p.Value == 2 {
			found = true
			assert.InDelta(t, 0.9, p.Probability, 1e-12)
		}
	}
	assert.True(t, found)
}

func TestDistribution_UnknownSpecies(t *testing.T) {
	stdout, _, err := execute(t, "distribution", hadronsCatalogue, "phi", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeUnknownSpecies, decodeError(t, stdout).Code)
}

func TestDistribution_UnknownChargeAxis(t *testing.T) {
	stdout, _, err := execute(t, "distribution", hadronsCatalogue, "omega", "--charge", "isospin", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ErrCodeConfig, decodeError(t, stdout).Code)
}

func TestDistribution_TargetAndChargeExclusive(t *testing.T) {
	_, _, err := execute(t, "distribution", hadronsCatalogue, "omega", "--target", "pi0", "--charge", "charged")
	require.Error(t, err)
}

func TestCumulants(t *testing.T) {
	stdout, _, err := execute(t, "cumulants", hadronsCatalogue, "rho0", "--format", "json")
	require.NoError(t, err)

	var result CumulantsResult
	decodeData(t, stdout, &result)
	assert.Equal(t, "rho0", result.Species)

	for _, row := range result.Rows {
		if row.Species == "pi+" {
			assert.InDelta(t, 1, row.Cumulants[0], 1e-12)
			assert.InDelta(t, 0, row.Cumulants[1], 1e-12)
			return
		}
	}
	t.Fatal("no cumulants for pi+")
}

func TestCumulants_Text(t *testing.T) {
	stdout, _, err := execute(t, "cumulants", hadronsCatalogue, "omega")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cumulants per decay of omega")
	assert.Contains(t, stdout, "k4")
}

func TestCheck_DecayCycle(t *testing.T) {
	stdout, _, err := execute(t, "check", "testdata/decay_cycle.yaml", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result CheckResult
	decodeData(t, stdout, &result)
	var codes []string
	for _, v := range result.Violations {
		codes = append(codes, v.Code)
	}
	// rho0 → rho0 is also a mass-ordering violation.
	assert.ElementsMatch(t, []string{"MASS_ORDER", "DECAY_CYCLE"}, codes)
}
