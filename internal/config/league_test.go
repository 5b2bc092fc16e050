package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindless-league/standings/internal/domain/standings"
)

func writeLeagueConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "league.config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validLeagueConfig = `{
  "season": "2025/26",
  "leagueId": 12345,
  "timezone": "Europe/London",
  "currency": "GBP",
  "tieMode": "split",
  "weeklyPrizes": {"1": 25},
  "seasonPrizes": {"1": 500, "2": 250},
  "monthDefinitions": [
    {"key": "SEP", "gws": [4, 5, 6], "payouts": {"1": 40}}
  ],
  "cups": [
    {
      "key": "MINDLESS_CUP",
      "name": "Mindless Cup",
      "mode": "derived",
      "format": "groups_then_knockout",
      "totalPrize": 100,
      "randomSeed": "mindless-2025",
      "startGw": 10,
      "groupCount": 2,
      "groupPoints": {"win": 3, "draw": 1, "loss": 0},
      "includeThirdPlacePlayoff": true
    },
    {
      "key": "SIDE_POT",
      "name": "Side Pot",
      "mode": "manual",
      "totalPrize": 50
    }
  ]
}`

func TestLoadLeagueConfig(t *testing.T) {
	t.Parallel()

	cfg, err := LoadLeagueConfig(writeLeagueConfig(t, validLeagueConfig))
	require.NoError(t, err)

	assert.Equal(t, "2025/26", cfg.Season)
	assert.Equal(t, 12345, cfg.LeagueID)
	assert.Equal(t, standings.TieSplit, cfg.TieMode)
	assert.Equal(t, 25.0, cfg.WeeklyPrizes.ForRank(1))
	require.Len(t, cfg.MonthDefinitions, 1)
	assert.Equal(t, []int{4, 5, 6}, cfg.MonthDefinitions[0].GWs)

	derived := cfg.DerivedCups()
	require.Len(t, derived, 1)
	assert.Equal(t, "MINDLESS_CUP", derived[0].Key)
	assert.Equal(t, "mindless_cup", derived[0].Slug())
	assert.Equal(t, 10, derived[0].StartGW)
	assert.True(t, derived[0].IncludeThirdPlacePlayoff)
}

func TestLoadLeagueConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadLeagueConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadLeagueConfigRejectsBadTieMode(t *testing.T) {
	t.Parallel()

	body := `{"season":"2025/26","leagueId":1,"tieMode":"random"}`
	_, err := LoadLeagueConfig(writeLeagueConfig(t, body))
	assert.Error(t, err)
}

func TestLoadLeagueConfigRequiresSeedForDerivedCup(t *testing.T) {
	t.Parallel()

	body := `{
  "season": "2025/26",
  "leagueId": 1,
  "tieMode": "deterministic",
  "cups": [
    {"key": "C", "name": "C", "mode": "derived", "format": "groups_then_knockout", "startGw": 3, "groupCount": 2}
  ]
}`
	_, err := LoadLeagueConfig(writeLeagueConfig(t, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "randomSeed")
}

func TestCupPayoutFallbacks(t *testing.T) {
	t.Parallel()

	plain := CupConfig{TotalPrize: 100}
	assert.Equal(t, 100.0, plain.ChampionPayout())
	assert.Equal(t, 0.0, plain.RunnerUpPayout())
	assert.Equal(t, 0.0, plain.ThirdPayout())

	explicit := CupConfig{TotalPrize: 100, CupPayouts: &CupPayouts{Champion: 60, RunnerUp: 30, Third: 10}}
	assert.Equal(t, 60.0, explicit.ChampionPayout())
	assert.Equal(t, 30.0, explicit.RunnerUpPayout())
	assert.Equal(t, 10.0, explicit.ThirdPayout())
}

func TestLoadManualCupResults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cups.results.json")
	body := `{"SIDE_POT": {"winners": [{"entryId": 42, "amount": 50, "note": "Side Pot winner"}]}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	results, err := LoadManualCupResults(path)
	require.NoError(t, err)
	require.Contains(t, results, "SIDE_POT")
	require.Len(t, results["SIDE_POT"].Winners, 1)
	assert.Equal(t, 42, results["SIDE_POT"].Winners[0].EntryID)
	assert.Equal(t, 50.0, results["SIDE_POT"].Winners[0].Amount)
}

func TestLoadManualCupResultsMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	results, err := LoadManualCupResults(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, results)
}
