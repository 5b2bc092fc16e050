package usecase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/mindless-league/standings/internal/config"
	"github.com/mindless-league/standings/internal/domain/cup"
	"github.com/mindless-league/standings/internal/domain/roster"
	"github.com/mindless-league/standings/internal/platform/logging"
	"github.com/mindless-league/standings/internal/platform/seedrand"
)

// VerifyService recomputes each derived cup's groups and group fixtures
// from the config, roster, and seed, and checks them against the persisted
// draw. It never writes anything.
type VerifyService struct {
	rosterRepo roster.Repository
	cupRepo    cup.Repository
	log        *logging.Logger
}

func NewVerifyService(rosterRepo roster.Repository, cupRepo cup.Repository, log *logging.Logger) *VerifyService {
	return &VerifyService{
		rosterRepo: rosterRepo,
		cupRepo:    cupRepo,
		log:        log,
	}
}

// VerifyCups checks every derived cup. The first mismatch fails the run
// with the offending cup key in the error.
func (s *VerifyService) VerifyCups(ctx context.Context, leagueCfg config.LeagueConfig) error {
	ctx, span := startUsecaseSpan(ctx, "VerifyService.VerifyCups")
	defer span.End()

	managersFile, found, err := s.rosterRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("get roster: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: roster snapshot", ErrNotFound)
	}

	for _, cupCfg := range leagueCfg.DerivedCups() {
		if err := s.verifyCup(ctx, cupCfg, managersFile.EntryIDs()); err != nil {
			return err
		}
		s.log.Info("cup draw verified", "cupKey", cupCfg.Key)
	}
	return nil
}

func (s *VerifyService) verifyCup(ctx context.Context, cfg config.CupConfig, entryIDs []int) error {
	draw, found, err := s.cupRepo.GetDraw(ctx, cfg.Key)
	if err != nil {
		return fmt.Errorf("get cup draw %s: %w", cfg.Key, err)
	}
	if !found {
		return fmt.Errorf("%w: cup draw %s", ErrNotFound, cfg.Key)
	}

	shuffled := seedrand.ShuffleInts(entryIDs, cfg.RandomSeed)
	if len(shuffled)/cfg.GroupCount < groupSize {
		return fmt.Errorf("%w: not enough entrants to verify cup %s", ErrInvalidInput, cfg.Key)
	}

	expectedGroups := cup.Groups{
		A: shuffled[0:groupSize],
		B: shuffled[groupSize : 2*groupSize],
	}
	if !canonicalEqual(draw.Groups, expectedGroups) {
		return fmt.Errorf("cup draw groups mismatch for %s", cfg.Key)
	}

	expectedRounds := make([]cup.FixtureRound, 0, 4)
	for round := 1; round <= 4; round++ {
		expectedRounds = append(expectedRounds, cup.FixtureRound{
			Round:   round,
			Stage:   cup.StageGroup,
			GW:      cfg.StartGW + round - 1,
			Matches: append(groupRoundMatches(expectedGroups.A, cup.GroupA, round), groupRoundMatches(expectedGroups.B, cup.GroupB, round)...),
		})
	}

	var drawGroupRounds []cup.FixtureRound
	for _, fixture := range draw.Fixtures {
		if fixture.Stage == cup.StageGroup {
			drawGroupRounds = append(drawGroupRounds, fixture)
		}
	}

	if !canonicalEqual(drawGroupRounds, expectedRounds) {
		return fmt.Errorf("cup fixtures mismatch for %s", cfg.Key)
	}
	return nil
}

// canonicalEqual compares two values through their marshaled JSON form so
// pointer fields compare by value.
func canonicalEqual(a, b any) bool {
	left, err := sonic.Marshal(a)
	if err != nil {
		return false
	}
	right, err := sonic.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}
