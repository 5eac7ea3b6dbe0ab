package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rhoSpecies returns π+, π-, ρ0 with ρ0 → π+ π-.
func rhoSpecies() []Species {
	return []Species{
		{PDG: 211, Name: "pi+", Mass: 0.13957, Charge: 1, Stable: true, Degeneracy: 1},
		{PDG: -211, Name: "pi-", Mass: 0.13957, Charge: -1, Stable: true, Degeneracy: 1},
		{PDG: 113, Name: "rho0", Mass: 0.775, Width: 0.149, Degeneracy: 3,
			Channels: []Channel{{BranchingRatio: 1, Daughters: []int{0, 1}}}},
	}
}

func TestNewCatalogue_AssignsIndices(t *testing.T) {
	cat, err := NewCatalogue(rhoSpecies())
	require.NoError(t, err)

	require.Equal(t, 3, cat.Len())
	for i := 0; i < cat.Len(); i++ {
		assert.Equal(t, i, cat.Species(i).Index)
	}

	i, ok := cat.ByPDG(113)
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	i, ok = cat.ByPDG(999)
	assert.False(t, ok)
	assert.Equal(t, -1, i)

	i, ok = cat.ByName("pi-")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	assert.Equal(t, int64(-211), cat.PDGOf(1))
	assert.Zero(t, cat.PDGOf(3))
}

func TestNewCatalogue_CopiesInput(t *testing.T) {
	in := rhoSpecies()
	cat, err := NewCatalogue(in)
	require.NoError(t, err)

	in[2].Channels[0].Daughters[0] = 1
	in[2].Mass = 5

	assert.Equal(t, []int{0, 1}, cat.Species(2).Channels[0].Daughters)
	assert.Equal(t, 0.775, cat.Species(2).Mass)
}

func TestNewCatalogue_Errors(t *testing.T) {
	t.Run("duplicate identifier", func(t *testing.T) {
		in := rhoSpecies()
		in[1].PDG = 211
		_, err := NewCatalogue(in)
		assert.True(t, IsIntegrityError(err, ErrCodeDuplicatePDG))
	})

	t.Run("daughter out of range", func(t *testing.T) {
		in := rhoSpecies()
		in[2].Channels[0].Daughters = []int{0, 3}
		_, err := NewCatalogue(in)
		require.Error(t, err)
		assert.True(t, IsIntegrityError(err, ErrCodeInvalidIndex))

		var ie *IntegrityError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, 2, ie.Species)
		assert.Equal(t, 0, ie.Channel)
		assert.Equal(t, 3, ie.Daughter)
	})
}

func TestCheckDecayChargesConservation(t *testing.T) {
	cat, err := NewCatalogue(rhoSpecies())
	require.NoError(t, err)
	assert.True(t, cat.CheckDecayChargesConservation(2))
	assert.True(t, cat.CheckDecayChargesConservation(0))

	bad := rhoSpecies()
	bad[2].Channels[0].Daughters = []int{0, 0}
	cat, err = NewCatalogue(bad)
	require.NoError(t, err)
	assert.False(t, cat.CheckDecayChargesConservation(2))

	err = cat.Validate()
	require.Error(t, err)
	assert.True(t, IsIntegrityError(err, ErrCodeChargeNotConserved))
	assert.Contains(t, err.Error(), "rho0")
}

func TestCheckMassOrdering(t *testing.T) {
	in := rhoSpecies()
	in[2].Mass = 0.2
	cat, err := NewCatalogue(in)
	require.NoError(t, err)
	assert.True(t, cat.CheckMassOrdering(2))

	in[2].Mass = 0.13957
	cat, err = NewCatalogue(in)
	require.NoError(t, err)
	assert.False(t, cat.CheckMassOrdering(2))
	assert.True(t, IsIntegrityError(cat.Validate(), ErrCodeMassOrder))
}

func TestValidate_Consistent(t *testing.T) {
	cat, err := NewCatalogue(rhoSpecies())
	require.NoError(t, err)
	assert.NoError(t, cat.Validate())
}

func TestMassOrder_StableTies(t *testing.T) {
	cat, err := NewCatalogue(rhoSpecies())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, cat.MassOrder())

	in := rhoSpecies()
	in[0], in[2] = in[2], in[0]
	in[0].Channels = nil
	cat, err = NewCatalogue(in)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, cat.MassOrder())
}

func TestBranchingRatios_NormalizeAndRestore(t *testing.T) {
	in := rhoSpecies()
	in[2].Channels = []Channel{
		{BranchingRatio: 0.6, Daughters: []int{0, 1}},
		{BranchingRatio: 0.2, Daughters: []int{1, 0}},
	}
	cat, err := NewCatalogue(in)
	require.NoError(t, err)
	original := cat.Version()

	cat.NormalizeBranchingRatios()
	assert.InDelta(t, 0.75, cat.Species(2).Channels[0].BranchingRatio, 1e-15)
	assert.InDelta(t, 0.25, cat.Species(2).Channels[1].BranchingRatio, 1e-15)
	assert.NotEqual(t, original, cat.Version())

	cat.RestoreBranchingRatios()
	assert.Equal(t, 0.6, cat.Species(2).Channels[0].BranchingRatio)
	assert.Equal(t, original, cat.Version())
}

func TestNormalizeBranchingRatios_SkipsZeroTotal(t *testing.T) {
	in := rhoSpecies()
	in[2].Channels[0].BranchingRatio = 0
	cat, err := NewCatalogue(in)
	require.NoError(t, err)

	cat.NormalizeBranchingRatios()
	assert.Zero(t, cat.Species(2).Channels[0].BranchingRatio)
}
