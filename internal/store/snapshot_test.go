package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/particle"
	"github.com/hqding/Thermal-FIST/internal/testutil"
)

func processHadrons(t *testing.T) *decay.Snapshot {
	t.Helper()
	snap, err := decay.NewResolver().ProcessDecays(testutil.HadronCatalogue(t))
	require.NoError(t, err)
	return snap
}

func TestWriteSnapshot_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	snap := processHadrons(t)

	run, err := s.WriteSnapshot(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, int64(1), run.Seq)
	assert.Equal(t, snap.Catalogue().Len(), run.SpeciesCount)

	got, err := s.LatestRun(ctx, snap.Version)
	require.NoError(t, err)
	assert.Equal(t, run, got)

	for _, fd := range particle.AllFeeddowns {
		table := snap.Feeddown(fd)
		for i := 0; i < table.Len(); i++ {
			row, err := s.ReadFeeddown(ctx, run.ID, fd, i)
			require.NoError(t, err)
			assert.Equal(t, table.Contributions(i), row, "%s row %d", fd, i)
		}
	}

	for i := 0; i < snap.Catalogue().Len(); i++ {
		want, err := snap.Cumulants(i)
		require.NoError(t, err)
		got, err := s.ReadCumulants(ctx, run.ID, i)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		wantD, err := snap.FullFinalStateDistribution(i)
		require.NoError(t, err)
		gotD, err := s.ReadDistribution(ctx, run.ID, i)
		require.NoError(t, err)
		assert.Equal(t, wantD, gotD)
	}
}

func TestWriteSnapshot_Species(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	snap := processHadrons(t)

	run, err := s.WriteSnapshot(ctx, snap)
	require.NoError(t, err)

	rows, err := s.ReadSpecies(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, rows, snap.Catalogue().Len())

	lambda := rows[testutil.Lambda]
	assert.Equal(t, testutil.Lambda, lambda.Index)
	assert.Equal(t, int64(3122), lambda.PDG)
	assert.Equal(t, particle.DecayWeak.String(), lambda.DecayType)
	assert.True(t, lambda.Stable)
	assert.False(t, rows[testutil.Rho].Stable)
}

func TestReadFeeddownTo(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	snap := processHadrons(t)

	run, err := s.WriteSnapshot(ctx, snap)
	require.NoError(t, err)

	got, err := s.ReadFeeddownTo(ctx, run.ID, particle.FeeddownStrong, testutil.PiPlus)
	require.NoError(t, err)
	assert.Equal(t, snap.Feeddown(particle.FeeddownStrong).ContributionsTo(testutil.PiPlus), got)
}

func TestLatestRun_PicksHighestSeq(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	snap := processHadrons(t)

	first, err := s.WriteSnapshot(ctx, snap)
	require.NoError(t, err)
	second, err := s.WriteSnapshot(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, first.Seq+1, second.Seq)

	latest, err := s.LatestRun(ctx, snap.Version)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Run{first, second}, runs)
}

func TestLatestRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.LatestRun(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	_, err = s.ReadRun(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	_, err = s.ReadDistribution(context.Background(), "missing", 0)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestWriteSnapshot_DuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dup.db")
	s, err := Open(path, WithRunIDGenerator(constantID("same")))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	snap := processHadrons(t)

	_, err = s.WriteSnapshot(ctx, snap)
	require.NoError(t, err)
	_, err = s.WriteSnapshot(ctx, snap)
	require.Error(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestUUIDv7Generator(t *testing.T) {
	id := UUIDv7Generator{}.Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

type constantID string

func (c constantID) Generate() string { return string(c) }
