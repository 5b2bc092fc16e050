package usecase

import (
	"context"

	"github.com/mindless-league/standings/internal/domain/cup"
	"github.com/mindless-league/standings/internal/domain/gameweek"
	"github.com/mindless-league/standings/internal/domain/prize"
	"github.com/mindless-league/standings/internal/domain/roster"
	"github.com/mindless-league/standings/internal/domain/standings"
)

type stubRosterRepository struct {
	file  roster.File
	found bool
	err   error
}

func (s *stubRosterRepository) Get(context.Context) (roster.File, bool, error) {
	return s.file, s.found, s.err
}

func (s *stubRosterRepository) Put(_ context.Context, file roster.File) error {
	s.file = file
	s.found = true
	return nil
}

type stubGameweekRepository struct {
	bootstrap     gameweek.Bootstrap
	histories     map[int]gameweek.EntryHistory
	teams         map[int]gameweek.TeamsFile
	live          map[int]gameweek.LiveFile
	gameweekFiles map[int]gameweek.File
}

func newStubGameweekRepository() *stubGameweekRepository {
	return &stubGameweekRepository{
		histories:     map[int]gameweek.EntryHistory{},
		teams:         map[int]gameweek.TeamsFile{},
		live:          map[int]gameweek.LiveFile{},
		gameweekFiles: map[int]gameweek.File{},
	}
}

func (s *stubGameweekRepository) GetBootstrap(context.Context) (gameweek.Bootstrap, error) {
	return s.bootstrap, nil
}

func (s *stubGameweekRepository) PutBootstrap(_ context.Context, b gameweek.Bootstrap) error {
	s.bootstrap = b
	return nil
}

func (s *stubGameweekRepository) GetEntryHistory(_ context.Context, entryID int) (gameweek.EntryHistory, error) {
	return s.histories[entryID], nil
}

func (s *stubGameweekRepository) PutEntryHistory(_ context.Context, entryID int, h gameweek.EntryHistory) error {
	s.histories[entryID] = h
	return nil
}

func (s *stubGameweekRepository) GetTeams(_ context.Context, gw int) (gameweek.TeamsFile, bool, error) {
	f, ok := s.teams[gw]
	return f, ok, nil
}

func (s *stubGameweekRepository) PutTeams(_ context.Context, f gameweek.TeamsFile) error {
	s.teams[f.GW] = f
	return nil
}

func (s *stubGameweekRepository) GetLive(_ context.Context, gw int) (gameweek.LiveFile, bool, error) {
	f, ok := s.live[gw]
	return f, ok, nil
}

func (s *stubGameweekRepository) PutLive(_ context.Context, gw int, f gameweek.LiveFile) error {
	s.live[gw] = f
	return nil
}

func (s *stubGameweekRepository) PutGameweekFile(_ context.Context, f gameweek.File) error {
	s.gameweekFiles[f.GW] = f
	return nil
}

type stubStandingsRepository struct {
	weeklies  []standings.WeeklyResult
	months    []standings.MonthlyResult
	season    standings.SeasonFile
	latest    standings.LatestFile
	hasLatest bool
}

func (s *stubStandingsRepository) PutWeeklies(_ context.Context, weeklies []standings.WeeklyResult) error {
	s.weeklies = weeklies
	return nil
}

func (s *stubStandingsRepository) PutMonths(_ context.Context, months []standings.MonthlyResult) error {
	s.months = months
	return nil
}

func (s *stubStandingsRepository) PutSeason(_ context.Context, season standings.SeasonFile) error {
	s.season = season
	return nil
}

func (s *stubStandingsRepository) PutLatest(_ context.Context, latest standings.LatestFile) error {
	s.latest = latest
	s.hasLatest = true
	return nil
}

func (s *stubStandingsRepository) GetLatest(context.Context) (standings.LatestFile, bool, error) {
	return s.latest, s.hasLatest, nil
}

type stubCupRepository struct {
	draws   map[string]cup.Draw
	results map[string]cup.Results
}

func newStubCupRepository() *stubCupRepository {
	return &stubCupRepository{
		draws:   map[string]cup.Draw{},
		results: map[string]cup.Results{},
	}
}

func (s *stubCupRepository) GetDraw(_ context.Context, cupKey string) (cup.Draw, bool, error) {
	d, ok := s.draws[cupKey]
	return d, ok, nil
}

func (s *stubCupRepository) PutDraw(_ context.Context, d cup.Draw) error {
	s.draws[d.CupKey] = d
	return nil
}

func (s *stubCupRepository) PutResults(_ context.Context, r cup.Results) error {
	s.results[r.CupKey] = r
	return nil
}

type stubPrizeRepository struct {
	file prize.File
	put  bool
}

func (s *stubPrizeRepository) PutLedger(_ context.Context, f prize.File) error {
	s.file = f
	s.put = true
	return nil
}
