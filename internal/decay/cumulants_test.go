package decay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqding/Thermal-FIST/internal/particle"
	"github.com/hqding/Thermal-FIST/internal/testutil"
)

func TestCumulants_MomentRoundTrip(t *testing.T) {
	k := Cumulants{1.5, 0.75, -0.2, 0.4}
	got := CumulantsFromMoments(k.Moments())
	for i := range k {
		assert.InDelta(t, k[i], got[i], 1e-12)
	}
}

func TestCumulants_Poisson(t *testing.T) {
	// Every cumulant of a Poisson variable equals its mean.
	const mu = 2.0
	m := [4]float64{
		mu,
		mu + mu*mu,
		mu + 3*mu*mu + mu*mu*mu,
		mu + 7*mu*mu + 6*mu*mu*mu + mu*mu*mu*mu,
	}
	got := CumulantsFromMoments(m)
	for i := range got {
		assert.InDelta(t, mu, got[i], 1e-12)
	}
}

func TestResolveCumulants_StableSelf(t *testing.T) {
	cat := testutil.HadronCatalogue(t)
	rows, err := resolveCumulants(cat, particle.FeeddownWeak)
	require.NoError(t, err)

	assert.Equal(t, []TargetCumulants{{Species: testutil.Proton, Cumulants: Cumulants{1, 0, 0, 0}}}, rows[testutil.Proton])
}

func TestResolveCumulants_MatchJointDistribution(t *testing.T) {
	b := testutil.HadronBuilder()
	// A fifth level on top of the hadron chain with two competing channels.
	top := b.Resonance("X", 9000113, 2.5, 0.3, 1)
	b.With(top, func(s *particle.Species) {
		s.Baryon = 1
		s.Strangeness = -1
	})
	b.Channel(top, 0.5, testutil.SigmaStar, testutil.PiPlus, testutil.PiMinus)
	b.Channel(top, 0.3, testutil.Lambda, testutil.PiPlus, testutil.PiZero)
	b.Channel(top, 0.2, testutil.SigmaStar, testutil.Omega, testutil.PiMinus)
	cat := b.Build(t)

	for _, fd := range particle.AllFeeddowns {
		t.Run(fd.String(), func(t *testing.T) {
			rows, err := resolveCumulants(cat, fd)
			require.NoError(t, err)
			dists, err := newTestConvolver(cat, fd, 0).resolveAll(nil)
			require.NoError(t, err)

			for res := 0; res < cat.Len(); res++ {
				for _, tc := range rows[res] {
					want := CumulantsFromMoments(dists[res].Moments(tc.Species))
					for n := range want {
						assert.InDelta(t, want[n], tc.Cumulants[n], 1e-9,
							"%s -> %s, cumulant %d", cat.Species(res).Name, cat.Species(tc.Species).Name, n+1)
					}
				}
			}
		})
	}
}

func TestResolveCumulants_MeanMatchesFeeddown(t *testing.T) {
	cat := testutil.HadronCatalogue(t)

	for _, fd := range particle.AllFeeddowns {
		rows, err := resolveCumulants(cat, fd)
		require.NoError(t, err)
		table, err := ResolveFeeddown(cat, fd)
		require.NoError(t, err)

		for res := 0; res < cat.Len(); res++ {
			require.Len(t, rows[res], len(table.Contributions(res)))
			for _, tc := range rows[res] {
				assert.InDelta(t, table.Mean(res, tc.Species), tc.Cumulants.Mean(), 1e-12)
			}
		}
	}
}

func TestResolveCumulants_BinomialChannelChoice(t *testing.T) {
	// Λ yields one proton with probability 0.64: a Bernoulli variable.
	cat := testutil.HadronCatalogue(t)
	rows, err := resolveCumulants(cat, particle.FeeddownWeak)
	require.NoError(t, err)

	const p = 0.64
	var got Cumulants
	for _, tc := range rows[testutil.Lambda] {
		if tc.Species == testutil.Proton {
			got = tc.Cumulants
		}
	}
	assert.InDelta(t, p, got[0], 1e-12)
	assert.InDelta(t, p*(1-p), got[1], 1e-12)
	assert.InDelta(t, p*(1-p)*(1-2*p), got[2], 1e-12)
	assert.InDelta(t, p*(1-p)*(1-6*p*(1-p)), got[3], 1e-12)
}
