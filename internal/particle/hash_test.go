package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueVersion_Deterministic(t *testing.T) {
	a, err := CatalogueVersion(rhoSpecies())
	require.NoError(t, err)
	b, err := CatalogueVersion(rhoSpecies())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestCatalogueVersion_InputFieldsOnly(t *testing.T) {
	base, err := CatalogueVersion(rhoSpecies())
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(s []Species)
		changes bool
	}{
		{"mass", func(s []Species) { s[2].Mass = 0.776 }, true},
		{"branching ratio", func(s []Species) { s[2].Channels[0].BranchingRatio = 0.5 }, true},
		{"daughter order", func(s []Species) { s[2].Channels[0].Daughters = []int{1, 0} }, true},
		{"stability flag", func(s []Species) { s[2].Stable = true }, true},
		{"decay type", func(s []Species) { s[2].DecayType = DecayStrong }, false},
		{"threshold", func(s []Species) { s[2].Channels[0].Threshold = 0.28 }, false},
		{"mass grid", func(s []Species) { s[2].MassGrid = MassGrid{Masses: []float64{0.7}, Weights: []float64{1}} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := rhoSpecies()
			tt.mutate(s)
			got, err := CatalogueVersion(s)
			require.NoError(t, err)
			if tt.changes {
				assert.NotEqual(t, base, got)
			} else {
				assert.Equal(t, base, got)
			}
		})
	}
}

func TestHashWithDomain_Separates(t *testing.T) {
	data := []byte(`[]`)
	assert.NotEqual(t, hashWithDomain("a", data), hashWithDomain("b", data))
}
