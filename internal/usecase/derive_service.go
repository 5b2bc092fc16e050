package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mindless-league/standings/internal/config"
	"github.com/mindless-league/standings/internal/domain/cup"
	"github.com/mindless-league/standings/internal/domain/gameweek"
	"github.com/mindless-league/standings/internal/domain/prize"
	"github.com/mindless-league/standings/internal/domain/roster"
	"github.com/mindless-league/standings/internal/domain/standings"
	"github.com/mindless-league/standings/internal/platform/logging"
)

// DeriveService runs the full derivation pipeline: per-gameweek snapshots,
// weekly and monthly tables, cup draws and results, the prize ledger, the
// season table, and the latest pointer. Every output is recomputed from the
// raw snapshots on each run.
type DeriveService struct {
	rosterRepo    roster.Repository
	gameweekRepo  gameweek.Repository
	standingsRepo standings.Repository
	prizeRepo     prize.Repository
	cups          *CupService
	log           *logging.Logger
	now           func() time.Time
}

func NewDeriveService(
	rosterRepo roster.Repository,
	gameweekRepo gameweek.Repository,
	standingsRepo standings.Repository,
	prizeRepo prize.Repository,
	cups *CupService,
	log *logging.Logger,
) *DeriveService {
	return &DeriveService{
		rosterRepo:    rosterRepo,
		gameweekRepo:  gameweekRepo,
		standingsRepo: standingsRepo,
		prizeRepo:     prizeRepo,
		cups:          cups,
		log:           log,
		now:           time.Now,
	}
}

// Run executes one derivation pass for the league.
func (s *DeriveService) Run(ctx context.Context, leagueCfg config.LeagueConfig, manual cup.ManualResults) error {
	ctx, span := startUsecaseSpan(ctx, "DeriveService.Run")
	defer span.End()

	managersFile, found, err := s.rosterRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("get roster: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: roster snapshot", ErrNotFound)
	}
	managers := managersFile.Managers
	if len(managers) == 0 {
		return fmt.Errorf("%w: roster is empty", ErrInvalidInput)
	}

	bootstrap, err := s.gameweekRepo.GetBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("get bootstrap: %w", err)
	}

	histories := make(map[int]gameweek.EntryHistory, len(managers))
	maxEvent := 0
	gwSet := map[int]bool{}
	for _, manager := range managers {
		history, err := s.gameweekRepo.GetEntryHistory(ctx, manager.EntryID)
		if err != nil {
			return fmt.Errorf("get entry history %d: %w", manager.EntryID, err)
		}
		histories[manager.EntryID] = history
		for _, item := range history.Current {
			gwSet[item.Event] = true
			if item.Event > maxEvent {
				maxEvent = item.Event
			}
		}
	}

	allGWs := make([]int, 0, len(gwSet))
	for gw := range gwSet {
		allGWs = append(allGWs, gw)
	}
	sort.Ints(allGWs)

	finished := bootstrap.FinishedSet()

	points := PointsIndex{}
	cumulative := make(map[int]int, len(managers))
	weeklies := make([]standings.WeeklyResult, 0, len(allGWs))
	ledger := []prize.LedgerItem{}

	for _, gw := range allGWs {
		isFinished := finished[gw]

		livePoints := map[int]int{}
		var teams gameweek.TeamsFile
		teamsFound := false
		if !isFinished {
			teams, teamsFound, err = s.gameweekRepo.GetTeams(ctx, gw)
			if err != nil {
				return fmt.Errorf("get teams gw %d: %w", gw, err)
			}
			live, liveFound, err := s.gameweekRepo.GetLive(ctx, gw)
			if err != nil {
				return fmt.Errorf("get live gw %d: %w", gw, err)
			}
			if liveFound {
				livePoints = live.PointsByElement()
			}
		}

		gwRows := make([]gameweek.PointsRow, 0, len(managers))
		rankable := make([]standings.Row, 0, len(managers))
		for _, manager := range managers {
			item, _ := histories[manager.EntryID].Item(gw)
			adjusted := item.Points - item.TransfersCost

			if !isFinished && teamsFound {
				if squad, ok := findSquad(teams, manager.EntryID); ok {
					adjusted = scoreSquad(squad, livePoints)
				}
			}

			total := cumulative[manager.EntryID] + adjusted
			cumulative[manager.EntryID] = total

			gwRows = append(gwRows, gameweek.PointsRow{
				EntryID:     manager.EntryID,
				PlayerName:  manager.PlayerName,
				TeamName:    manager.TeamName,
				Points:      adjusted,
				TotalPoints: total,
			})
			rankable = append(rankable, standings.Row{
				EntryID:    manager.EntryID,
				PlayerName: manager.PlayerName,
				TeamName:   manager.TeamName,
				Points:     adjusted,
			})
			points.Set(gw, manager.EntryID, PointsEntry{Points: adjusted, TotalPoints: total})
		}

		deadline := ""
		if event, ok := bootstrap.Event(gw); ok {
			deadline = event.DeadlineTime
		}

		if err := s.gameweekRepo.PutGameweekFile(ctx, gameweek.File{
			GW:           gw,
			DeadlineTime: deadline,
			IsFinished:   isFinished,
			Rows:         gwRows,
		}); err != nil {
			return fmt.Errorf("put gameweek file %d: %w", gw, err)
		}

		ranked := standings.RankRows(rankable, leagueCfg.TieMode, leagueCfg.WeeklyPrizes)
		weeklies = append(weeklies, standings.WeeklyResult{
			GW:           gw,
			DeadlineTime: deadline,
			IsFinished:   isFinished,
			Rows:         ranked,
		})

		// A live gameweek's provisional prizes are visible in the weekly
		// table but never ledgered.
		if isFinished {
			for _, row := range ranked {
				if row.Prize > 0 {
					ledger = append(ledger, prize.NewWeekly(gw, row.EntryID, row.Prize, fmt.Sprintf("GW%d rank %d", gw, row.Rank)))
				}
			}
		}
	}

	if err := s.standingsRepo.PutWeeklies(ctx, weeklies); err != nil {
		return fmt.Errorf("put weeklies: %w", err)
	}

	months := make([]standings.MonthlyResult, 0, len(leagueCfg.MonthDefinitions))
	for _, month := range leagueCfg.MonthDefinitions {
		rows := make([]standings.Row, 0, len(managers))
		for _, manager := range managers {
			total := 0
			for _, gw := range month.GWs {
				if finished[gw] {
					total += points.At(gw, manager.EntryID).Points
				}
			}
			rows = append(rows, standings.Row{
				EntryID:    manager.EntryID,
				PlayerName: manager.PlayerName,
				TeamName:   manager.TeamName,
				Points:     total,
			})
		}

		ranked := standings.RankRows(rows, leagueCfg.TieMode, month.Payouts)
		for _, row := range ranked {
			if row.Prize > 0 {
				ledger = append(ledger, prize.NewMonthly(month.Key, row.EntryID, row.Prize, fmt.Sprintf("%s rank %d", month.Key, row.Rank)))
			}
		}
		months = append(months, standings.MonthlyResult{Key: month.Key, GWs: month.GWs, Rows: ranked})
	}

	if err := s.standingsRepo.PutMonths(ctx, months); err != nil {
		return fmt.Errorf("put months: %w", err)
	}

	lastAvailableGW := 0
	if len(allGWs) > 0 {
		lastAvailableGW = allGWs[len(allGWs)-1]
	}
	lastFinishedGW := 0
	for gw := range finished {
		if gw > lastFinishedGW {
			lastFinishedGW = gw
		}
	}
	if lastFinishedGW == 0 {
		lastFinishedGW = lastAvailableGW
		if lastFinishedGW == 0 {
			lastFinishedGW = maxEvent
		}
	}

	seasonRows := make([]standings.Row, 0, len(managers))
	for _, manager := range managers {
		total := 0
		for _, gw := range allGWs {
			total += points.At(gw, manager.EntryID).Points
		}
		seasonRows = append(seasonRows, standings.Row{
			EntryID:    manager.EntryID,
			PlayerName: manager.PlayerName,
			TeamName:   manager.TeamName,
			Points:     total,
		})
	}
	rankedSeason := standings.RankRows(seasonRows, leagueCfg.TieMode, leagueCfg.SeasonPrizes)
	for _, row := range rankedSeason {
		if row.Prize > 0 {
			ledger = append(ledger, prize.NewSeason(row.EntryID, row.Prize, fmt.Sprintf("Season rank %d", row.Rank)))
		}
	}

	entryIDs := managersFile.EntryIDs()
	for _, cupCfg := range leagueCfg.DerivedCups() {
		draw, ok, err := s.cups.EnsureDraw(ctx, cupCfg, leagueCfg.Season, entryIDs)
		if err != nil {
			return fmt.Errorf("ensure cup draw %s: %w", cupCfg.Key, err)
		}
		if !ok {
			continue
		}
		results, err := s.cups.Resolve(ctx, cupCfg, draw, finished, points)
		if err != nil {
			return fmt.Errorf("resolve cup %s: %w", cupCfg.Key, err)
		}
		ledger = append(ledger, s.cups.PrizeItems(cupCfg, results)...)
	}

	manualKeys := make([]string, 0, len(manual))
	for cupKey := range manual {
		manualKeys = append(manualKeys, cupKey)
	}
	sort.Strings(manualKeys)
	for _, cupKey := range manualKeys {
		for _, winner := range manual[cupKey].Winners {
			reason := winner.Note
			if reason == "" {
				reason = fmt.Sprintf("%s winner", cupKey)
			}
			ledger = append(ledger, prize.NewCup(cupKey, winner.EntryID, winner.Amount, reason))
		}
	}

	if err := s.prizeRepo.PutLedger(ctx, prize.File{
		Items:         ledger,
		TotalsByEntry: prize.Totals(ledger),
	}); err != nil {
		return fmt.Errorf("put prize ledger: %w", err)
	}

	seasonFileRows := make([]standings.SeasonRow, 0, len(rankedSeason))
	for _, row := range rankedSeason {
		weekly := prize.SumByKind(ledger, row.EntryID, prize.KindWeekly)
		monthly := prize.SumByKind(ledger, row.EntryID, prize.KindMonthly)
		cupWinnings := prize.SumByKind(ledger, row.EntryID, prize.KindCup)
		seasonFileRows = append(seasonFileRows, standings.SeasonRow{
			EntryID:         row.EntryID,
			PlayerName:      row.PlayerName,
			TeamName:        row.TeamName,
			TotalPoints:     row.Points,
			Rank:            row.Rank,
			SeasonPrize:     row.Prize,
			WeeklyWinnings:  weekly,
			MonthlyWinnings: monthly,
			CupWinnings:     cupWinnings,
			TotalWinnings:   weekly + monthly + cupWinnings + row.Prize,
		})
	}

	if err := s.standingsRepo.PutSeason(ctx, standings.SeasonFile{
		Season:        leagueCfg.Season,
		LastUpdatedGW: lastFinishedGW,
		Rows:          seasonFileRows,
	}); err != nil {
		return fmt.Errorf("put season: %w", err)
	}

	currentGW := bootstrap.CurrentGW()
	if currentGW == 0 {
		currentGW = maxEvent
	}
	if err := s.standingsRepo.PutLatest(ctx, standings.LatestFile{
		LastFinishedGW:  lastFinishedGW,
		LastAvailableGW: lastAvailableGW,
		CurrentGW:       currentGW,
		GeneratedAt:     s.now().UTC().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("put latest: %w", err)
	}

	s.log.Info("derivation complete",
		"gameweeks", len(allGWs),
		"lastFinishedGw", lastFinishedGW,
		"ledgerItems", len(ledger))
	return nil
}

func findSquad(teams gameweek.TeamsFile, entryID int) (gameweek.Squad, bool) {
	for _, squad := range teams.Squads {
		if squad.EntryID == entryID {
			return squad, true
		}
	}
	return gameweek.Squad{}, false
}

func scoreSquad(squad gameweek.Squad, livePoints map[int]int) int {
	total := 0
	for _, pick := range squad.Picks {
		total += pick.Multiplier * livePoints[pick.Element]
	}
	return total
}
