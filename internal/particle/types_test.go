package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeddown_Decays(t *testing.T) {
	types := []DecayType{DecayStable, DecayWeak, DecayElectromagnetic, DecayStrong}

	tests := []struct {
		fd   Feeddown
		want map[DecayType]bool
	}{
		{FeeddownStrong, map[DecayType]bool{DecayStrong: true}},
		{FeeddownElectromagnetic, map[DecayType]bool{DecayStrong: true, DecayElectromagnetic: true}},
		{FeeddownWeak, map[DecayType]bool{DecayStrong: true, DecayElectromagnetic: true, DecayWeak: true}},
	}

	for _, tt := range tests {
		t.Run(tt.fd.String(), func(t *testing.T) {
			for _, dt := range types {
				assert.Equal(t, tt.want[dt], tt.fd.Decays(dt, true), dt.String())
				assert.Equal(t, tt.want[dt], tt.fd.Decays(dt, false), dt.String())
			}
		})
	}

	t.Run("stability", func(t *testing.T) {
		for _, dt := range types {
			assert.True(t, FeeddownStabilityFlag.Decays(dt, false))
			assert.False(t, FeeddownStabilityFlag.Decays(dt, true))
		}
	})
}

func TestParseFeeddown(t *testing.T) {
	for _, fd := range AllFeeddowns {
		got, ok := ParseFeeddown(fd.String())
		assert.True(t, ok)
		assert.Equal(t, fd, got)
	}

	got, ok := ParseFeeddown("em")
	assert.True(t, ok)
	assert.Equal(t, FeeddownElectromagnetic, got)

	_, ok = ParseFeeddown("hadronic")
	assert.False(t, ok)
}

func TestParseChargeAxis(t *testing.T) {
	got, ok := ParseChargeAxis("strangeness")
	assert.True(t, ok)
	assert.Equal(t, NetStrangeness, got)

	_, ok = ParseChargeAxis("isospin")
	assert.False(t, ok)
	assert.Equal(t, "unknown", ChargeAxis(42).String())
}

func TestChannel_Multiplicities(t *testing.T) {
	ch := Channel{Daughters: []int{3, 1, 3, 3, 1, 0}}
	assert.Equal(t, []Daughter{{3, 3}, {1, 2}, {0, 1}}, ch.Multiplicities())
	assert.Empty(t, Channel{}.Multiplicities())
}

func TestSpecies_ChargeValue(t *testing.T) {
	s := &Species{Baryon: -1, Charge: -2, Strangeness: 1, Charm: -1}

	assert.Equal(t, -1, s.ChargeValue(NetBaryon))
	assert.Equal(t, -2, s.ChargeValue(NetCharge))
	assert.Equal(t, 1, s.ChargeValue(NetStrangeness))
	assert.Equal(t, -1, s.ChargeValue(NetCharm))
	assert.Equal(t, 0, s.ChargeValue(PositiveCharged))
	assert.Equal(t, 1, s.ChargeValue(NegativeCharged))
	assert.Equal(t, 1, s.ChargeValue(Charged))
}

func TestSpecies_AverageBranchingRatio(t *testing.T) {
	s := &Species{
		Channels: []Channel{{BranchingRatio: 0.4, BranchingVsMass: []float64{0.2, 0.6}}},
		MassGrid: MassGrid{Masses: []float64{0.7, 0.8}, Weights: []float64{0.5, 0.5}},
	}
	assert.InDelta(t, 0.4, s.AverageBranchingRatio(0), 1e-15)

	s.MassGrid = MassGrid{}
	assert.Equal(t, 0.4, s.AverageBranchingRatio(0))
}
