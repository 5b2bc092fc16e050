package app

import (
	"fmt"
	"net/http"

	"github.com/mindless-league/standings/external/fpl"
	"github.com/mindless-league/standings/internal/config"
	"github.com/mindless-league/standings/internal/domain/cup"
	"github.com/mindless-league/standings/internal/domain/standings"
	"github.com/mindless-league/standings/internal/infrastructure/repository/snapshot"
	"github.com/mindless-league/standings/internal/infrastructure/store"
	"github.com/mindless-league/standings/internal/interfaces/httpapi"
	"github.com/mindless-league/standings/internal/platform/logging"
	"github.com/mindless-league/standings/internal/usecase"
)

// Pipeline bundles the wired services every command starts from.
type Pipeline struct {
	LeagueConfig  config.LeagueConfig
	ManualResults cup.ManualResults
	StandingsRepo standings.Repository
	Derive        *usecase.DeriveService
	Verify        *usecase.VerifyService
	Ingest        *usecase.IngestService
	Sync          *usecase.SyncService
}

func NewPipeline(cfg config.Config, logger *logging.Logger) (*Pipeline, error) {
	leagueCfg, err := config.LoadLeagueConfig(cfg.LeagueConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load league config: %w", err)
	}
	manual, err := config.LoadManualCupResults(cfg.ManualCupResultsPath)
	if err != nil {
		return nil, fmt.Errorf("load manual cup results: %w", err)
	}

	snapshots := store.New(cfg.DataDir)
	rosterRepo := snapshot.NewRosterRepository(snapshots)
	gameweekRepo := snapshot.NewGameweekRepository(snapshots)
	standingsRepo := snapshot.NewStandingsRepository(snapshots)
	cupRepo := snapshot.NewCupRepository(snapshots)
	prizeRepo := snapshot.NewPrizeRepository(snapshots)

	cupSvc := usecase.NewCupService(cupRepo, logger)
	deriveSvc := usecase.NewDeriveService(rosterRepo, gameweekRepo, standingsRepo, prizeRepo, cupSvc, logger)
	verifySvc := usecase.NewVerifyService(rosterRepo, cupRepo, logger)

	upstream := fpl.NewClient(fpl.ClientConfig{
		BaseURL:      cfg.FPLBaseURL,
		Timeout:      cfg.FPLTimeout,
		MaxRetries:   cfg.FPLMaxRetries,
		RequestDelay: cfg.FPLRequestDelay,
		Logger:       logger,
	})
	ingestSvc := usecase.NewIngestService(upstream, rosterRepo, gameweekRepo, standingsRepo, leagueCfg, cfg.FPLFetchWorkers, logger)
	syncSvc := usecase.NewSyncService(ingestSvc, deriveSvc, logger)

	return &Pipeline{
		LeagueConfig:  leagueCfg,
		ManualResults: manual,
		StandingsRepo: standingsRepo,
		Derive:        deriveSvc,
		Verify:        verifySvc,
		Ingest:        ingestSvc,
		Sync:          syncSvc,
	}, nil
}

func NewHTTPServer(cfg config.Config, pipeline *Pipeline, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(pipeline.Sync, pipeline.StandingsRepo, pipeline.LeagueConfig, pipeline.ManualResults, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SyncTriggerToken)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
