package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindless-league/standings/internal/domain/cup"
	"github.com/mindless-league/standings/internal/domain/gameweek"
	"github.com/mindless-league/standings/internal/domain/roster"
	"github.com/mindless-league/standings/internal/infrastructure/store"
)

func newStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	root := t.TempDir()
	return store.New(root), root
}

func TestRosterRoundTrip(t *testing.T) {
	t.Parallel()

	s, root := newStore(t)
	repo := NewRosterRepository(s)
	ctx := context.Background()

	_, found, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	file := roster.File{
		Season:   "2025/26",
		LeagueID: 99,
		Managers: []roster.Manager{{EntryID: 7, PlayerName: "Ada", TeamName: "Lovelace XI"}},
	}
	require.NoError(t, repo.Put(ctx, file))

	_, err = os.Stat(filepath.Join(root, "managers.json"))
	require.NoError(t, err)

	got, found, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, file.Managers, got.Managers)
}

func TestGameweekMissingRawSnapshots(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)
	repo := NewGameweekRepository(s)
	ctx := context.Background()

	_, err := repo.GetBootstrap(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSnapshot))

	_, err = repo.GetEntryHistory(ctx, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSnapshot))
}

func TestGameweekOptionalSnapshots(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)
	repo := NewGameweekRepository(s)
	ctx := context.Background()

	_, found, err := repo.GetTeams(ctx, 3)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.PutTeams(ctx, gameweek.TeamsFile{GW: 3, Squads: []gameweek.Squad{{EntryID: 7}}}))
	teams, found, err := repo.GetTeams(ctx, 3)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, teams.Squads, 1)

	require.NoError(t, repo.PutLive(ctx, 3, gameweek.LiveFile{Elements: []gameweek.LiveElement{{ID: 1}}}))
	live, found, err := repo.GetLive(ctx, 3)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, live.Elements, 1)
}

func TestGameweekRawPaths(t *testing.T) {
	t.Parallel()

	s, root := newStore(t)
	repo := NewGameweekRepository(s)
	ctx := context.Background()

	require.NoError(t, repo.PutBootstrap(ctx, gameweek.Bootstrap{}))
	require.NoError(t, repo.PutEntryHistory(ctx, 42, gameweek.EntryHistory{}))
	require.NoError(t, repo.PutGameweekFile(ctx, gameweek.File{GW: 5}))

	for _, rel := range []string{"bootstrap.json", "raw/entry/42.json", "gameweeks/5.json"} {
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
	}
}

func TestCupDrawRoundTripUsesSlug(t *testing.T) {
	t.Parallel()

	s, root := newStore(t)
	repo := NewCupRepository(s)
	ctx := context.Background()

	_, found, err := repo.GetDraw(ctx, "MINDLESS_CUP")
	require.NoError(t, err)
	assert.False(t, found)

	draw := cup.Draw{CupKey: "MINDLESS_CUP", Season: "2025/26", RandomSeed: "s", StartGW: 10}
	require.NoError(t, repo.PutDraw(ctx, draw))

	_, err = os.Stat(filepath.Join(root, "cups", "mindless_cup", "draw.json"))
	require.NoError(t, err)

	got, found, err := repo.GetDraw(ctx, "MINDLESS_CUP")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, draw.StartGW, got.StartGW)
}
