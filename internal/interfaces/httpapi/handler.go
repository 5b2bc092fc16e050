package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mindless-league/standings/internal/config"
	"github.com/mindless-league/standings/internal/domain/cup"
	"github.com/mindless-league/standings/internal/domain/standings"
	"github.com/mindless-league/standings/internal/platform/logging"
	"github.com/mindless-league/standings/internal/usecase"
)

// SyncRunner runs one fetch+derive pass for the configured league.
type SyncRunner interface {
	Sync(ctx context.Context, leagueCfg config.LeagueConfig, manual cup.ManualResults) (usecase.SyncOutcome, error)
}

type Handler struct {
	sync          SyncRunner
	standingsRepo standings.Repository
	leagueCfg     config.LeagueConfig
	manual        cup.ManualResults
	logger        *logging.Logger
}

func NewHandler(
	sync SyncRunner,
	standingsRepo standings.Repository,
	leagueCfg config.LeagueConfig,
	manual cup.ManualResults,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		sync:          sync,
		standingsRepo: standingsRepo,
		leagueCfg:     leagueCfg,
		manual:        manual,
		logger:        logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) SyncNow(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncNow")
	defer span.End()

	outcome, err := h.sync.Sync(ctx, h.leagueCfg, h.manual)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, outcome)
}

func (h *Handler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLatest")
	defer span.End()

	latest, found, err := h.standingsRepo.GetLatest(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "read latest pointer failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: no derivation has run yet", usecase.ErrNotFound))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, latest)
}
