package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mindless-league/standings/internal/config"
	"github.com/mindless-league/standings/internal/domain/cup"
	"github.com/mindless-league/standings/internal/domain/prize"
	"github.com/mindless-league/standings/internal/platform/logging"
	"github.com/mindless-league/standings/internal/platform/seedrand"
)

const groupSize = 5

// CupService generates seeded cup draws and resolves cup results from the
// aggregated points index. Both operations are pure functions of the seed,
// the config, and the points data, so reruns reproduce identical output.
type CupService struct {
	cupRepo cup.Repository
	log     *logging.Logger
	now     func() time.Time
}

func NewCupService(cupRepo cup.Repository, log *logging.Logger) *CupService {
	return &CupService{
		cupRepo: cupRepo,
		log:     log,
		now:     time.Now,
	}
}

// EnsureDraw returns the persisted draw for the cup, regenerating it when
// none exists or the stored one was built from a different seed, start
// gameweek, or season. ok is false when the roster is too small to fill the
// groups; the cup is skipped without error.
func (s *CupService) EnsureDraw(ctx context.Context, cfg config.CupConfig, season string, entryIDs []int) (cup.Draw, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "CupService.EnsureDraw")
	defer span.End()

	existing, found, err := s.cupRepo.GetDraw(ctx, cfg.Key)
	if err != nil {
		return cup.Draw{}, false, fmt.Errorf("get cup draw: %w", err)
	}
	if found && !existing.Stale(cfg.RandomSeed, cfg.StartGW, season) {
		return existing, true, nil
	}

	shuffled := seedrand.ShuffleInts(entryIDs, cfg.RandomSeed)
	if len(shuffled)/cfg.GroupCount < groupSize {
		s.log.Warn("not enough entrants for cup draw, skipping",
			"cupKey", cfg.Key, "entrants", len(shuffled), "needed", cfg.GroupCount*groupSize)
		return cup.Draw{}, false, nil
	}

	groups := cup.Groups{
		A: shuffled[0:groupSize],
		B: shuffled[groupSize : 2*groupSize],
	}

	fixtures := make([]cup.FixtureRound, 0, 7)
	for round := 1; round <= 4; round++ {
		matches := append(groupRoundMatches(groups.A, cup.GroupA, round), groupRoundMatches(groups.B, cup.GroupB, round)...)
		fixtures = append(fixtures, cup.FixtureRound{
			Round:   round,
			Stage:   cup.StageGroup,
			GW:      cfg.StartGW + round - 1,
			Matches: matches,
		})
	}
	fixtures = append(fixtures, cup.FixtureRound{
		Round: 5,
		Stage: cup.StageSemi,
		GW:    cfg.StartGW + 4,
		Matches: []cup.Match{
			{MatchID: "SF1"},
			{MatchID: "SF2"},
		},
	})
	fixtures = append(fixtures, cup.FixtureRound{
		Round:   6,
		Stage:   cup.StageFinal,
		GW:      cfg.StartGW + 5,
		Matches: []cup.Match{{MatchID: "F1"}},
	})
	if cfg.IncludeThirdPlacePlayoff {
		fixtures = append(fixtures, cup.FixtureRound{
			Round:   7,
			Stage:   cup.StageThird,
			GW:      cfg.StartGW + 5,
			Matches: []cup.Match{{MatchID: "TP1"}},
		})
	}

	draw := cup.Draw{
		CupKey:      cfg.Key,
		Season:      season,
		GeneratedAt: s.now().UTC().Format(time.RFC3339),
		RandomSeed:  cfg.RandomSeed,
		StartGW:     cfg.StartGW,
		Groups:      groups,
		Fixtures:    fixtures,
	}
	if err := s.cupRepo.PutDraw(ctx, draw); err != nil {
		return cup.Draw{}, false, fmt.Errorf("put cup draw: %w", err)
	}

	s.log.Info("cup draw generated", "cupKey", cfg.Key, "startGw", cfg.StartGW)
	return draw, true, nil
}

// groupRoundMatches returns the fixed round-robin pairings for one round of
// a five-entrant group. Entrant one plays every round; the others rotate.
func groupRoundMatches(entries []int, group cup.GroupKey, round int) []cup.Match {
	t1, t2, t3, t4, t5 := entries[0], entries[1], entries[2], entries[3], entries[4]

	var pairs [2][2]int
	switch round {
	case 1:
		pairs = [2][2]int{{t1, t2}, {t3, t4}}
	case 2:
		pairs = [2][2]int{{t1, t3}, {t2, t5}}
	case 3:
		pairs = [2][2]int{{t1, t4}, {t5, t3}}
	case 4:
		pairs = [2][2]int{{t1, t5}, {t2, t4}}
	}

	matches := make([]cup.Match, 0, 2)
	for n, pair := range pairs {
		home, away := pair[0], pair[1]
		matches = append(matches, cup.Match{
			MatchID:     fmt.Sprintf("GR%d-%s-%d", round, group, n+1),
			HomeEntryID: &home,
			AwayEntryID: &away,
			Group:       group,
		})
	}
	return matches
}

// Resolve computes the cup's full resolution state from the draw and the
// points index, persists it, and returns it.
func (s *CupService) Resolve(ctx context.Context, cfg config.CupConfig, draw cup.Draw, finished map[int]bool, points PointsIndex) (cup.Results, error) {
	ctx, span := startUsecaseSpan(ctx, "CupService.Resolve")
	defer span.End()

	var groupRounds []cup.FixtureRound
	var semiFixture, finalFixture, thirdFixture *cup.FixtureRound
	for i := range draw.Fixtures {
		fixture := &draw.Fixtures[i]
		switch fixture.Stage {
		case cup.StageGroup:
			groupRounds = append(groupRounds, *fixture)
		case cup.StageSemi:
			semiFixture = fixture
		case cup.StageFinal:
			finalFixture = fixture
		case cup.StageThird:
			thirdFixture = fixture
		}
	}

	var lastFinishedGroupGW *int
	groupStageComplete := true
	for _, round := range groupRounds {
		if finished[round.GW] {
			gw := round.GW
			if lastFinishedGroupGW == nil || gw > *lastFinishedGroupGW {
				lastFinishedGroupGW = &gw
			}
		} else {
			groupStageComplete = false
		}
	}

	rounds := make([]cup.ResultRound, 0, len(draw.Fixtures))
	for _, round := range groupRounds {
		matches := make([]cup.MatchResult, 0, len(round.Matches))
		for _, match := range round.Matches {
			if finished[round.GW] {
				matches = append(matches, s.resolveMatch(match.MatchID, round.Stage, round.Round, round.GW, match.HomeEntryID, match.AwayEntryID, points, cfg.RandomSeed))
			} else {
				matches = append(matches, pendingMatch(match.MatchID, round.Stage, round.Round, round.GW, match.HomeEntryID, match.AwayEntryID))
			}
		}
		rounds = append(rounds, cup.ResultRound{Round: round.Round, Stage: round.Stage, GW: round.GW, Matches: matches})
	}

	var groupMatches []cup.MatchResult
	for _, round := range rounds {
		groupMatches = append(groupMatches, round.Matches...)
	}
	tables := cup.GroupTables{
		A: s.groupTable(draw.Groups.A, matchesForGroup(groupMatches, cup.GroupA), cfg, lastFinishedGroupGW, points),
		B: s.groupTable(draw.Groups.B, matchesForGroup(groupMatches, cup.GroupB), cfg, lastFinishedGroupGW, points),
	}

	var semiMatches []cup.MatchResult
	if semiFixture != nil {
		for index, match := range semiFixture.Matches {
			var home, away *int
			if groupStageComplete {
				// Crossover seeding: each group winner meets the other
				// group's runner-up.
				if index == 0 {
					home = tableEntry(tables.A, 0)
					away = tableEntry(tables.B, 1)
				} else {
					home = tableEntry(tables.B, 0)
					away = tableEntry(tables.A, 1)
				}
			}
			if finished[semiFixture.GW] {
				semiMatches = append(semiMatches, s.resolveMatch(match.MatchID, cup.StageSemi, semiFixture.Round, semiFixture.GW, home, away, points, cfg.RandomSeed))
			} else {
				semiMatches = append(semiMatches, pendingMatch(match.MatchID, cup.StageSemi, semiFixture.Round, semiFixture.GW, home, away))
			}
		}
		rounds = append(rounds, cup.ResultRound{Round: semiFixture.Round, Stage: cup.StageSemi, GW: semiFixture.GW, Matches: semiMatches})
	}

	var finalMatches []cup.MatchResult
	if finalFixture != nil {
		var home, away *int
		if len(semiMatches) > 0 {
			home = semiMatches[0].WinnerEntryID
		}
		if len(semiMatches) > 1 {
			away = semiMatches[1].WinnerEntryID
		}
		for _, match := range finalFixture.Matches {
			if finished[finalFixture.GW] {
				finalMatches = append(finalMatches, s.resolveMatch(match.MatchID, cup.StageFinal, finalFixture.Round, finalFixture.GW, home, away, points, cfg.RandomSeed))
			} else {
				finalMatches = append(finalMatches, pendingMatch(match.MatchID, cup.StageFinal, finalFixture.Round, finalFixture.GW, home, away))
			}
		}
		rounds = append(rounds, cup.ResultRound{Round: finalFixture.Round, Stage: cup.StageFinal, GW: finalFixture.GW, Matches: finalMatches})
	}

	var thirdMatches []cup.MatchResult
	if thirdFixture != nil {
		var home, away *int
		if len(semiMatches) > 0 {
			home = semiMatches[0].LoserEntryID()
		}
		if len(semiMatches) > 1 {
			away = semiMatches[1].LoserEntryID()
		}
		for _, match := range thirdFixture.Matches {
			if finished[thirdFixture.GW] {
				thirdMatches = append(thirdMatches, s.resolveMatch(match.MatchID, cup.StageThird, thirdFixture.Round, thirdFixture.GW, home, away, points, cfg.RandomSeed))
			} else {
				thirdMatches = append(thirdMatches, pendingMatch(match.MatchID, cup.StageThird, thirdFixture.Round, thirdFixture.GW, home, away))
			}
		}
		rounds = append(rounds, cup.ResultRound{Round: thirdFixture.Round, Stage: cup.StageThird, GW: thirdFixture.GW, Matches: thirdMatches})
	}

	results := cup.Results{
		CupKey:      cfg.Key,
		UpdatedAt:   s.now().UTC().Format(time.RFC3339),
		Rounds:      rounds,
		GroupTables: tables,
		Finals:      buildFinals(semiMatches, finalMatches, thirdMatches),
		Placements:  buildPlacements(finalMatches, thirdMatches),
	}

	if err := s.cupRepo.PutResults(ctx, results); err != nil {
		return cup.Results{}, fmt.Errorf("put cup results: %w", err)
	}
	return results, nil
}

// PrizeItems converts known placements into cup ledger items.
func (s *CupService) PrizeItems(cfg config.CupConfig, results cup.Results) []prize.LedgerItem {
	var items []prize.LedgerItem
	if results.Placements.ChampionEntryID != nil {
		if amount := cfg.ChampionPayout(); amount > 0 {
			items = append(items, prize.NewCup(cfg.Key, *results.Placements.ChampionEntryID, amount, fmt.Sprintf("%s champion", cfg.Name)))
		}
	}
	if results.Placements.RunnerUpEntryID != nil {
		if amount := cfg.RunnerUpPayout(); amount > 0 {
			items = append(items, prize.NewCup(cfg.Key, *results.Placements.RunnerUpEntryID, amount, fmt.Sprintf("%s runner-up", cfg.Name)))
		}
	}
	if results.Placements.ThirdEntryID != nil {
		if amount := cfg.ThirdPayout(); amount > 0 {
			items = append(items, prize.NewCup(cfg.Key, *results.Placements.ThirdEntryID, amount, fmt.Sprintf("%s third place", cfg.Name)))
		}
	}
	return items
}

func pendingMatch(matchID string, stage cup.Stage, round, gw int, home, away *int) cup.MatchResult {
	return cup.MatchResult{
		MatchID:     matchID,
		Stage:       stage,
		Round:       round,
		GW:          gw,
		HomeEntryID: home,
		AwayEntryID: away,
	}
}

// resolveMatch settles a two-sided match with the tie-break cascade:
// gameweek points, then cumulative season points at the match's gameweek,
// then a seeded coin flip keyed on the match id.
func (s *CupService) resolveMatch(matchID string, stage cup.Stage, round, gw int, home, away *int, points PointsIndex, seed string) cup.MatchResult {
	if home == nil || away == nil {
		return pendingMatch(matchID, stage, round, gw, home, away)
	}

	homeData := points.At(gw, *home)
	awayData := points.At(gw, *away)
	result := cup.MatchResult{
		MatchID:     matchID,
		Stage:       stage,
		Round:       round,
		GW:          gw,
		HomeEntryID: home,
		AwayEntryID: away,
		HomePoints:  &homeData.Points,
		AwayPoints:  &awayData.Points,
	}

	if homeData.Points != awayData.Points {
		if homeData.Points > awayData.Points {
			result.WinnerEntryID = home
		} else {
			result.WinnerEntryID = away
		}
		result.DecidedBy = decidedByPtr(cup.DecidedByGWPoints)
		return result
	}

	if homeData.TotalPoints != awayData.TotalPoints {
		if homeData.TotalPoints > awayData.TotalPoints {
			result.WinnerEntryID = home
		} else {
			result.WinnerEntryID = away
		}
		result.DecidedBy = decidedByPtr(cup.DecidedBySeasonPoints)
		return result
	}

	if seedrand.CoinFlip(fmt.Sprintf("%s:%s", seed, matchID)) {
		result.WinnerEntryID = home
	} else {
		result.WinnerEntryID = away
	}
	result.DecidedBy = decidedByPtr(cup.DecidedByRandom)
	return result
}

// groupTable accumulates decided matches into a table and orders it by
// points, wins, points-for, head-to-head, cumulative season points at the
// last finished group gameweek, then a seeded per-entrant value.
func (s *CupService) groupTable(entries []int, matches []cup.MatchResult, cfg config.CupConfig, lastFinishedGroupGW *int, points PointsIndex) []cup.GroupTableRow {
	byEntry := make(map[int]*cup.GroupTableRow, len(entries))
	rows := make([]cup.GroupTableRow, len(entries))
	for i, entryID := range entries {
		rows[i] = cup.GroupTableRow{EntryID: entryID}
		byEntry[entryID] = &rows[i]
	}

	headToHead := make(map[[2]int]int)
	for _, match := range matches {
		if match.HomeEntryID == nil || match.AwayEntryID == nil {
			continue
		}
		if match.HomePoints == nil || match.AwayPoints == nil {
			continue
		}
		home, away := byEntry[*match.HomeEntryID], byEntry[*match.AwayEntryID]
		if home == nil || away == nil {
			continue
		}

		home.Played++
		away.Played++
		home.GF += *match.HomePoints
		home.GA += *match.AwayPoints
		away.GF += *match.AwayPoints
		away.GA += *match.HomePoints

		switch {
		case match.WinnerEntryID == nil:
			home.Drawn++
			away.Drawn++
			home.Points += cfg.GroupPoints.Draw
			away.Points += cfg.GroupPoints.Draw
		case *match.WinnerEntryID == *match.HomeEntryID:
			home.Won++
			away.Lost++
			home.Points += cfg.GroupPoints.Win
			away.Points += cfg.GroupPoints.Loss
		default:
			away.Won++
			home.Lost++
			away.Points += cfg.GroupPoints.Win
			home.Points += cfg.GroupPoints.Loss
		}

		if match.WinnerEntryID != nil {
			headToHead[[2]int{*match.HomeEntryID, *match.AwayEntryID}] = *match.WinnerEntryID
			headToHead[[2]int{*match.AwayEntryID, *match.HomeEntryID}] = *match.WinnerEntryID
		}
	}

	for i := range rows {
		rows[i].GD = rows[i].GF - rows[i].GA
	}

	seasonPoints := make(map[int]int, len(entries))
	if lastFinishedGroupGW != nil {
		for _, entryID := range entries {
			seasonPoints[entryID] = points.At(*lastFinishedGroupGW, entryID).TotalPoints
		}
	}

	group := groupKeyForMatches(matches)
	seededValue := func(entryID int) float64 {
		return seedrand.Value(fmt.Sprintf("%s:%s:%d", cfg.RandomSeed, group, entryID))
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Won != b.Won {
			return a.Won > b.Won
		}
		if a.GF != b.GF {
			return a.GF > b.GF
		}
		if winner, ok := headToHead[[2]int{a.EntryID, b.EntryID}]; ok {
			if winner == a.EntryID {
				return true
			}
			if winner == b.EntryID {
				return false
			}
		}
		if seasonPoints[a.EntryID] != seasonPoints[b.EntryID] {
			return seasonPoints[a.EntryID] > seasonPoints[b.EntryID]
		}
		return seededValue(a.EntryID) > seededValue(b.EntryID)
	})

	return rows
}

func matchesForGroup(matches []cup.MatchResult, group cup.GroupKey) []cup.MatchResult {
	marker := fmt.Sprintf("-%s-", group)
	out := make([]cup.MatchResult, 0, len(matches))
	for _, match := range matches {
		if match.Stage == cup.StageGroup && strings.Contains(match.MatchID, marker) {
			out = append(out, match)
		}
	}
	return out
}

func groupKeyForMatches(matches []cup.MatchResult) cup.GroupKey {
	for _, match := range matches {
		if strings.Contains(match.MatchID, "-B-") {
			return cup.GroupB
		}
	}
	return cup.GroupA
}

func tableEntry(table []cup.GroupTableRow, index int) *int {
	if index >= len(table) {
		return nil
	}
	entryID := table[index].EntryID
	return &entryID
}

func buildFinals(semis, finals, thirds []cup.MatchResult) cup.Finals {
	out := cup.Finals{}
	if len(semis) > 0 {
		out.Semi1 = &cup.FinalRef{MatchID: semis[0].MatchID, WinnerEntryID: semis[0].WinnerEntryID}
	}
	if len(semis) > 1 {
		out.Semi2 = &cup.FinalRef{MatchID: semis[1].MatchID, WinnerEntryID: semis[1].WinnerEntryID}
	}
	if len(finals) > 0 {
		out.Final = &cup.FinalRef{MatchID: finals[0].MatchID, WinnerEntryID: finals[0].WinnerEntryID}
	}
	if len(thirds) > 0 {
		out.Third = &cup.FinalRef{MatchID: thirds[0].MatchID, WinnerEntryID: thirds[0].WinnerEntryID}
	}
	return out
}

func buildPlacements(finals, thirds []cup.MatchResult) cup.Placements {
	out := cup.Placements{}
	if len(finals) > 0 {
		final := finals[0]
		out.ChampionEntryID = final.WinnerEntryID
		out.RunnerUpEntryID = final.LoserEntryID()
	}
	if len(thirds) > 0 {
		out.ThirdEntryID = thirds[0].WinnerEntryID
	}
	return out
}

func decidedByPtr(d cup.DecidedBy) *cup.DecidedBy {
	return &d
}
