package decay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqding/Thermal-FIST/internal/particle"
	"github.com/hqding/Thermal-FIST/internal/testutil"
)

func TestDecayProbabilityVector_Identity(t *testing.T) {
	cat := testutil.HadronCatalogue(t)

	self, err := DecayProbabilityVector(cat, particle.FeeddownStabilityFlag, testutil.Proton, testutil.Proton)
	require.NoError(t, err)
	assert.Equal(t, []Point{{Value: 1, Probability: 1}}, self)

	other, err := DecayProbabilityVector(cat, particle.FeeddownStabilityFlag, testutil.Proton, testutil.PiPlus)
	require.NoError(t, err)
	assert.Equal(t, []Point{{Value: 0, Probability: 1}}, other)
}

func TestDecayProbabilityVector_TwoChannels(t *testing.T) {
	const p = 0.3

	b := testutil.NewCatalogueBuilder()
	target := b.Stable("T", 1, 0.1, 0)
	y := b.Stable("Y", 2, 0.2, 0)
	parent := b.Resonance("P", 3, 1.0, 0.1, 0)
	b.Channel(parent, p, target, y)
	b.Channel(parent, 1-p, y, y)
	cat := b.Build(t)

	got, err := DecayProbabilityVector(cat, particle.FeeddownStabilityFlag, parent, target)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Value)
	assert.InDelta(t, 1-p, got[0].Probability, 1e-15)
	assert.Equal(t, 1, got[1].Value)
	assert.InDelta(t, p, got[1].Probability, 1e-15)
}

func TestDecayProbabilityVector_ThreeBodyMultiplicity(t *testing.T) {
	b := testutil.NewCatalogueBuilder()
	x := b.Stable("X", 1, 0.1, 0)
	y := b.Stable("Y", 2, 0.2, 0)
	parent := b.Resonance("P", 3, 1.0, 0.1, 0)
	b.Channel(parent, 1, x, x, y)
	cat := b.Build(t)

	got, err := DecayProbabilityVector(cat, particle.FeeddownStabilityFlag, parent, x)
	require.NoError(t, err)
	assert.Equal(t, []Point{{Value: 2, Probability: 1}}, got)

	snap, err := NewResolver().ProcessDecays(cat)
	require.NoError(t, err)
	k, err := snap.DecayCumulants(parent, x)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, k.Mean(), 1e-15)
	assert.InDelta(t, 0.0, k.Variance(), 1e-15)
}

func TestDecayProbabilityVector_MatchesMarginal(t *testing.T) {
	cat := testutil.HadronCatalogue(t)
	dists, err := newTestConvolver(cat, particle.FeeddownWeak, DefaultDistributionCap).resolveAll(nil)
	require.NoError(t, err)

	for _, target := range []int{testutil.Gamma, testutil.PiPlus, testutil.Proton, testutil.Neutron} {
		got, err := DecayProbabilityVector(cat, particle.FeeddownWeak, testutil.SigmaStar, target)
		require.NoError(t, err)

		want := dists[testutil.SigmaStar].Marginal(target)
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].Value, got[i].Value)
			assert.InDelta(t, want[i].Probability, got[i].Probability, 1e-12)
		}
	}
}

func TestDecayProbabilityVectorByCharge(t *testing.T) {
	cat := testutil.HadronCatalogue(t)

	tests := []struct {
		name string
		fd   particle.Feeddown
		res  int
		axis particle.ChargeAxis
		want []Point
	}{
		{"rho net charge", particle.FeeddownStabilityFlag, testutil.Rho, particle.NetCharge, []Point{{0, 1}}},
		{"rho charged", particle.FeeddownStabilityFlag, testutil.Rho, particle.Charged, []Point{{2, 1}}},
		{"omega charged", particle.FeeddownStabilityFlag, testutil.Omega, particle.Charged, []Point{{0, 0.1}, {2, 0.9}}},
		{"Delta positive", particle.FeeddownStabilityFlag, testutil.Delta, particle.PositiveCharged, []Point{{2, 1}}},
		{"Sigma* baryon", particle.FeeddownWeak, testutil.SigmaStar, particle.NetBaryon, []Point{{1, 1}}},
		{"Sigma* strangeness stops at Lambda", particle.FeeddownStrong, testutil.SigmaStar, particle.NetStrangeness, []Point{{-1, 1}}},
		{"Sigma* strangeness after weak decay", particle.FeeddownWeak, testutil.SigmaStar, particle.NetStrangeness, []Point{{0, 1}}},
		{"Sigma* negative", particle.FeeddownWeak, testutil.SigmaStar, particle.NegativeCharged, []Point{{0, 0.36}, {1, 0.64}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecayProbabilityVectorByCharge(cat, tt.fd, tt.res, tt.axis)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].Value, got[i].Value)
				assert.InDelta(t, tt.want[i].Probability, got[i].Probability, 1e-12)
			}
		})
	}
}

func TestDecayProbabilityVector_UnknownSpecies(t *testing.T) {
	cat := testutil.HadronCatalogue(t)

	_, err := DecayProbabilityVector(cat, particle.FeeddownStrong, cat.Len(), 0)
	assert.True(t, errors.Is(err, ErrUnknownSpecies))

	_, err = DecayProbabilityVector(cat, particle.FeeddownStrong, 0, -1)
	assert.True(t, errors.Is(err, ErrUnknownSpecies))

	_, err = DecayProbabilityVectorByCharge(cat, particle.FeeddownStrong, -1, particle.NetCharge)
	assert.True(t, errors.Is(err, ErrUnknownSpecies))
}

func TestDecayProbabilityVector_UnreachableCycleIgnored(t *testing.T) {
	b := testutil.HadronBuilder()
	p := b.Resonance("P", 9000001, 3.0, 0.1, 0)
	q := b.Resonance("Q", 9000002, 3.0, 0.1, 0)
	b.Channel(p, 1, q)
	b.Channel(q, 1, p)
	cat := b.Build(t)

	got, err := DecayProbabilityVector(cat, particle.FeeddownStrong, testutil.Rho, testutil.PiPlus)
	require.NoError(t, err)
	assert.Equal(t, []Point{{Value: 1, Probability: 1}}, got)

	_, err = DecayProbabilityVector(cat, particle.FeeddownStrong, p, testutil.PiPlus)
	assert.True(t, particle.IsIntegrityError(err, particle.ErrCodeUnresolvedDaughter))
}
