package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/mindless-league/standings/internal/config"
	"github.com/mindless-league/standings/internal/domain/cup"
	"github.com/mindless-league/standings/internal/domain/standings"
	"github.com/mindless-league/standings/internal/platform/logging"
	"github.com/mindless-league/standings/internal/usecase"
)

type stubSyncRunner struct {
	outcome usecase.SyncOutcome
	err     error
	calls   int
}

func (s *stubSyncRunner) Sync(context.Context, config.LeagueConfig, cup.ManualResults) (usecase.SyncOutcome, error) {
	s.calls++
	return s.outcome, s.err
}

type stubLatestRepo struct {
	latest standings.LatestFile
	found  bool
}

func (s *stubLatestRepo) PutWeeklies(context.Context, []standings.WeeklyResult) error { return nil }
func (s *stubLatestRepo) PutMonths(context.Context, []standings.MonthlyResult) error  { return nil }
func (s *stubLatestRepo) PutSeason(context.Context, standings.SeasonFile) error       { return nil }
func (s *stubLatestRepo) PutLatest(context.Context, standings.LatestFile) error       { return nil }

func (s *stubLatestRepo) GetLatest(context.Context) (standings.LatestFile, bool, error) {
	return s.latest, s.found, nil
}

func newTestHandler(sync SyncRunner, repo standings.Repository) *Handler {
	return NewHandler(sync, repo, config.LeagueConfig{Season: "2025/26"}, nil, logging.NewNop())
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(&stubSyncRunner{}, &stubLatestRepo{})

	rec := httptest.NewRecorder()
	handler.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	data, _ := body["data"].(map[string]any)
	if got, _ := data["status"].(string); got != "ok" {
		t.Fatalf("expected status ok, got %v", data)
	}
}

func TestSyncNow_ReturnsOutcome(t *testing.T) {
	runner := &stubSyncRunner{outcome: usecase.SyncOutcome{DurationMS: 42, FinishedAt: "2026-01-02T03:04:05Z"}}
	handler := newTestHandler(runner, &stubLatestRepo{})

	rec := httptest.NewRecorder()
	handler.SyncNow(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/sync", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if runner.calls != 1 {
		t.Fatalf("expected 1 sync call, got %d", runner.calls)
	}

	var body struct {
		Data usecase.SyncOutcome `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Data.DurationMS != 42 || body.Data.FinishedAt != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected outcome payload: %+v", body.Data)
	}
}

func TestSyncNow_MapsDependencyFailure(t *testing.T) {
	runner := &stubSyncRunner{err: fmt.Errorf("%w: upstream timeout", usecase.ErrDependencyUnavailable)}
	handler := newTestHandler(runner, &stubLatestRepo{})

	rec := httptest.NewRecorder()
	handler.SyncNow(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/sync", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestGetLatest(t *testing.T) {
	repo := &stubLatestRepo{
		latest: standings.LatestFile{LastFinishedGW: 7, CurrentGW: 8},
		found:  true,
	}
	handler := newTestHandler(&stubSyncRunner{}, repo)

	rec := httptest.NewRecorder()
	handler.GetLatest(rec, httptest.NewRequest(http.MethodGet, "/v1/latest", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		Data standings.LatestFile `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Data.LastFinishedGW != 7 || body.Data.CurrentGW != 8 {
		t.Fatalf("unexpected latest payload: %+v", body.Data)
	}
}

func TestGetLatest_MissingIsNotFound(t *testing.T) {
	handler := newTestHandler(&stubSyncRunner{}, &stubLatestRepo{})

	rec := httptest.NewRecorder()
	handler.GetLatest(rec, httptest.NewRequest(http.MethodGet, "/v1/latest", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouter_SyncRouteIsTokenGated(t *testing.T) {
	runner := &stubSyncRunner{}
	router := NewRouter(newTestHandler(runner, &stubLatestRepo{}), logging.NewNop(), "secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/sync", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}
	if runner.calls != 0 {
		t.Fatalf("sync must not run without a valid token, got %d calls", runner.calls)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync", nil)
	req.Header.Set("X-Sync-Token", "secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 with token, got %d", rec.Code)
	}
	if runner.calls != 1 {
		t.Fatalf("expected 1 sync call, got %d", runner.calls)
	}
}
