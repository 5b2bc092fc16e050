package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/mindless-league/standings/internal/config"
	"github.com/mindless-league/standings/internal/domain/cup"
	"github.com/mindless-league/standings/internal/platform/logging"
	"github.com/mindless-league/standings/internal/platform/resilience"
)

// Fetcher refreshes the raw upstream snapshots the pipeline reads.
type Fetcher interface {
	FetchAll(ctx context.Context) error
}

// SyncService runs fetch followed by derive. Concurrent triggers collapse
// into a single run; late callers share the leader's outcome.
type SyncService struct {
	fetcher Fetcher
	derive  *DeriveService
	flights resilience.SingleFlight
	log     *logging.Logger
	now     func() time.Time
}

// SyncOutcome reports one completed sync run.
type SyncOutcome struct {
	Shared     bool   `json:"shared"`
	DurationMS int64  `json:"durationMs"`
	FinishedAt string `json:"finishedAt"`
}

func NewSyncService(fetcher Fetcher, derive *DeriveService, log *logging.Logger) *SyncService {
	return &SyncService{
		fetcher: fetcher,
		derive:  derive,
		log:     log,
		now:     time.Now,
	}
}

// Sync performs one fetch+derive pass for the league.
func (s *SyncService) Sync(ctx context.Context, leagueCfg config.LeagueConfig, manual cup.ManualResults) (SyncOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.Sync")
	defer span.End()

	value, err, shared := s.flights.Do("sync", func() (any, error) {
		started := s.now()

		if s.fetcher != nil {
			if err := s.fetcher.FetchAll(ctx); err != nil {
				return SyncOutcome{}, fmt.Errorf("fetch snapshots: %w", err)
			}
		}
		if err := s.derive.Run(ctx, leagueCfg, manual); err != nil {
			return SyncOutcome{}, fmt.Errorf("derive: %w", err)
		}

		finished := s.now()
		return SyncOutcome{
			DurationMS: finished.Sub(started).Milliseconds(),
			FinishedAt: finished.UTC().Format(time.RFC3339),
		}, nil
	})
	if err != nil {
		return SyncOutcome{}, err
	}

	outcome := value.(SyncOutcome)
	outcome.Shared = shared
	if shared {
		s.log.Info("sync joined in-flight run")
	}
	return outcome, nil
}
