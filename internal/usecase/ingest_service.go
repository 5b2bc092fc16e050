package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/mindless-league/standings/internal/config"
	"github.com/mindless-league/standings/internal/domain/gameweek"
	"github.com/mindless-league/standings/internal/domain/roster"
	"github.com/mindless-league/standings/internal/domain/standings"
	"github.com/mindless-league/standings/internal/platform/logging"
)

// UpstreamClient is the slice of the fantasy game API the ingest needs.
type UpstreamClient interface {
	FetchBootstrap(ctx context.Context) (gameweek.Bootstrap, error)
	FetchLeagueMembers(ctx context.Context, leagueID int) ([]roster.Manager, error)
	FetchEntryHistory(ctx context.Context, entryID int) (gameweek.EntryHistory, error)
	FetchEntryPicks(ctx context.Context, entryID, gw int) ([]gameweek.Pick, error)
	FetchEventLive(ctx context.Context, gw int) (gameweek.LiveFile, error)
}

// IngestService refreshes every raw snapshot the pipeline consumes:
// bootstrap, roster, per-entry histories, per-gameweek picks and live
// scores. Per-entry work fans out on a bounded worker pool.
type IngestService struct {
	upstream      UpstreamClient
	rosterRepo    roster.Repository
	gameweekRepo  gameweek.Repository
	standingsRepo standings.Repository
	leagueCfg     config.LeagueConfig
	maxWorkers    int
	log           *logging.Logger
	now           func() time.Time
}

func NewIngestService(
	upstream UpstreamClient,
	rosterRepo roster.Repository,
	gameweekRepo gameweek.Repository,
	standingsRepo standings.Repository,
	leagueCfg config.LeagueConfig,
	maxWorkers int,
	log *logging.Logger,
) *IngestService {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &IngestService{
		upstream:      upstream,
		rosterRepo:    rosterRepo,
		gameweekRepo:  gameweekRepo,
		standingsRepo: standingsRepo,
		leagueCfg:     leagueCfg,
		maxWorkers:    maxWorkers,
		log:           log,
		now:           time.Now,
	}
}

type entrySnapshot struct {
	manager   roster.Manager
	history   gameweek.EntryHistory
	picksByGW map[int][]gameweek.Pick
	err       error
}

// FetchAll refreshes all raw snapshots and the latest pointer.
func (s *IngestService) FetchAll(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "IngestService.FetchAll")
	defer span.End()

	bootstrap, err := s.upstream.FetchBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	if err := s.gameweekRepo.PutBootstrap(ctx, bootstrap); err != nil {
		return fmt.Errorf("put bootstrap: %w", err)
	}

	finishedGWs := make([]int, 0, len(bootstrap.Events))
	for _, event := range bootstrap.Events {
		if event.Finished {
			finishedGWs = append(finishedGWs, event.ID)
		}
	}
	sort.Ints(finishedGWs)

	for _, gw := range finishedGWs {
		live, err := s.upstream.FetchEventLive(ctx, gw)
		if err != nil {
			return fmt.Errorf("%w: live gw %d: %v", ErrDependencyUnavailable, gw, err)
		}
		if err := s.gameweekRepo.PutLive(ctx, gw, live); err != nil {
			return fmt.Errorf("put live gw %d: %w", gw, err)
		}
	}

	managers, err := s.upstream.FetchLeagueMembers(ctx, s.leagueCfg.LeagueID)
	if err != nil {
		return fmt.Errorf("%w: league members: %v", ErrDependencyUnavailable, err)
	}
	if err := s.rosterRepo.Put(ctx, roster.File{
		Season:    s.leagueCfg.Season,
		LeagueID:  s.leagueCfg.LeagueID,
		Managers:  managers,
		FetchedAt: s.now().UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("put roster: %w", err)
	}

	snapshots, err := s.fetchEntries(ctx, managers, finishedGWs)
	if err != nil {
		return err
	}

	for _, snap := range snapshots {
		if err := s.gameweekRepo.PutEntryHistory(ctx, snap.manager.EntryID, snap.history); err != nil {
			return fmt.Errorf("put entry history %d: %w", snap.manager.EntryID, err)
		}
	}

	for _, gw := range finishedGWs {
		squads := make([]gameweek.Squad, 0, len(snapshots))
		for _, snap := range snapshots {
			squads = append(squads, gameweek.Squad{
				EntryID:    snap.manager.EntryID,
				PlayerName: snap.manager.PlayerName,
				TeamName:   snap.manager.TeamName,
				Picks:      snap.picksByGW[gw],
			})
		}
		if err := s.gameweekRepo.PutTeams(ctx, gameweek.TeamsFile{GW: gw, Squads: squads}); err != nil {
			return fmt.Errorf("put teams gw %d: %w", gw, err)
		}
	}

	lastFinishedGW := 0
	if len(finishedGWs) > 0 {
		lastFinishedGW = finishedGWs[len(finishedGWs)-1]
	}
	if err := s.standingsRepo.PutLatest(ctx, standings.LatestFile{
		LastFinishedGW:  lastFinishedGW,
		LastAvailableGW: lastFinishedGW,
		CurrentGW:       bootstrap.CurrentGW(),
		GeneratedAt:     s.now().UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("put latest: %w", err)
	}

	s.log.Info("fetch complete",
		"managers", len(managers),
		"finishedGws", len(finishedGWs),
		"workers", s.maxWorkers)
	return nil
}

// fetchEntries pulls each entrant's history and per-gameweek picks on a
// bounded pool. Results come back in roster order regardless of completion
// order so downstream files stay deterministic.
func (s *IngestService) fetchEntries(ctx context.Context, managers []roster.Manager, finishedGWs []int) ([]entrySnapshot, error) {
	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	snapshots := make([]entrySnapshot, len(managers))
	var workers sync.WaitGroup
	for i, manager := range managers {
		i, manager := i, manager
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			snap := entrySnapshot{manager: manager, picksByGW: make(map[int][]gameweek.Pick, len(finishedGWs))}
			history, err := s.upstream.FetchEntryHistory(ctx, manager.EntryID)
			if err != nil {
				snap.err = fmt.Errorf("entry %d history: %w", manager.EntryID, err)
				snapshots[i] = snap
				return
			}
			snap.history = history

			for _, gw := range finishedGWs {
				picks, err := s.upstream.FetchEntryPicks(ctx, manager.EntryID, gw)
				if err != nil {
					snap.err = fmt.Errorf("entry %d picks gw %d: %w", manager.EntryID, gw, err)
					break
				}
				snap.picksByGW[gw] = picks
			}
			snapshots[i] = snap
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit fetch task: %w", err)
		}
	}
	workers.Wait()

	for _, snap := range snapshots {
		if snap.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, snap.err)
		}
	}
	return snapshots, nil
}
