package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mindless-league/standings/internal/config"
	"github.com/mindless-league/standings/internal/domain/gameweek"
	"github.com/mindless-league/standings/internal/domain/roster"
	"github.com/mindless-league/standings/internal/platform/logging"
)

type stubUpstream struct {
	bootstrap gameweek.Bootstrap
	members   []roster.Manager
	histories map[int]gameweek.EntryHistory
	picks     map[int]map[int][]gameweek.Pick
	live      map[int]gameweek.LiveFile
	picksErr  error
}

func (s *stubUpstream) FetchBootstrap(context.Context) (gameweek.Bootstrap, error) {
	return s.bootstrap, nil
}

func (s *stubUpstream) FetchLeagueMembers(context.Context, int) ([]roster.Manager, error) {
	return s.members, nil
}

func (s *stubUpstream) FetchEntryHistory(_ context.Context, entryID int) (gameweek.EntryHistory, error) {
	return s.histories[entryID], nil
}

func (s *stubUpstream) FetchEntryPicks(_ context.Context, entryID, gw int) ([]gameweek.Pick, error) {
	if s.picksErr != nil {
		return nil, s.picksErr
	}
	return s.picks[entryID][gw], nil
}

func (s *stubUpstream) FetchEventLive(_ context.Context, gw int) (gameweek.LiveFile, error) {
	return s.live[gw], nil
}

func newIngestFixture(upstream *stubUpstream) (*IngestService, *stubRosterRepository, *stubGameweekRepository, *stubStandingsRepository) {
	rosterRepo := &stubRosterRepository{}
	gameweekRepo := newStubGameweekRepository()
	standingsRepo := &stubStandingsRepository{}
	leagueCfg := config.LeagueConfig{Season: "2025/26", LeagueID: 77}
	service := NewIngestService(upstream, rosterRepo, gameweekRepo, standingsRepo, leagueCfg, 2, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return service, rosterRepo, gameweekRepo, standingsRepo
}

func TestFetchAllRefreshesEverySnapshot(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{
		bootstrap: gameweek.Bootstrap{Events: []gameweek.Event{
			{ID: 1, Finished: true},
			{ID: 2, IsCurrent: true},
		}},
		members: []roster.Manager{
			{EntryID: 10, PlayerName: "Ada", TeamName: "Lovelace XI"},
			{EntryID: 20, PlayerName: "Alan", TeamName: "Turing Town"},
		},
		histories: map[int]gameweek.EntryHistory{
			10: {Current: []gameweek.HistoryItem{{Event: 1, Points: 55}}},
			20: {Current: []gameweek.HistoryItem{{Event: 1, Points: 48}}},
		},
		picks: map[int]map[int][]gameweek.Pick{
			10: {1: {{Element: 3, Multiplier: 2}}},
			20: {1: {{Element: 9, Multiplier: 1}}},
		},
		live: map[int]gameweek.LiveFile{
			1: {Elements: []gameweek.LiveElement{{ID: 3, Stats: gameweek.LiveElementStats{TotalPoints: 8}}}},
		},
	}

	service, rosterRepo, gameweekRepo, standingsRepo := newIngestFixture(upstream)
	if err := service.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	if len(gameweekRepo.bootstrap.Events) != 2 {
		t.Fatal("bootstrap not stored")
	}
	if _, ok := gameweekRepo.live[1]; !ok {
		t.Fatal("live snapshot for finished gw not stored")
	}
	if _, ok := gameweekRepo.live[2]; ok {
		t.Fatal("live snapshot stored for unfinished gw")
	}

	if rosterRepo.file.LeagueID != 77 || len(rosterRepo.file.Managers) != 2 {
		t.Fatalf("unexpected roster file: %+v", rosterRepo.file)
	}
	if rosterRepo.file.FetchedAt != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected fetchedAt: %s", rosterRepo.file.FetchedAt)
	}

	if gameweekRepo.histories[10].Current[0].Points != 55 {
		t.Fatal("entry history not stored")
	}

	teams := gameweekRepo.teams[1]
	if len(teams.Squads) != 2 {
		t.Fatalf("expected 2 squads, got %d", len(teams.Squads))
	}
	// Squads keep roster order regardless of which worker finished first.
	if teams.Squads[0].EntryID != 10 || teams.Squads[1].EntryID != 20 {
		t.Fatalf("squads out of roster order: %+v", teams.Squads)
	}
	if teams.Squads[0].Picks[0].Element != 3 {
		t.Fatalf("unexpected picks: %+v", teams.Squads[0].Picks)
	}

	latest := standingsRepo.latest
	if latest.LastFinishedGW != 1 || latest.CurrentGW != 2 {
		t.Fatalf("unexpected latest pointer: %+v", latest)
	}
}

func TestFetchAllPropagatesEntryFailure(t *testing.T) {
	t.Parallel()

	upstream := &stubUpstream{
		bootstrap: gameweek.Bootstrap{Events: []gameweek.Event{{ID: 1, Finished: true}}},
		members:   []roster.Manager{{EntryID: 10}},
		histories: map[int]gameweek.EntryHistory{10: {}},
		live:      map[int]gameweek.LiveFile{1: {}},
		picksErr:  errors.New("upstream 500"),
	}

	service, _, _, _ := newIngestFixture(upstream)
	err := service.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected error from failed picks fetch")
	}
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
