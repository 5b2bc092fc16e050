package fpl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindless-league/standings/internal/platform/logging"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 2,
		Logger:     logging.NewNop(),
	})
}

func TestFetchBootstrap(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bootstrap-static/", r.URL.Path)
		_, _ = w.Write([]byte(`{"events":[{"id":1,"name":"Gameweek 1","finished":true,"is_current":false,"deadline_time":"2025-08-15T17:30:00Z"},{"id":2,"is_current":true}]}`))
	}))

	bootstrap, err := client.FetchBootstrap(context.Background())
	require.NoError(t, err)
	require.Len(t, bootstrap.Events, 2)
	assert.True(t, bootstrap.Events[0].Finished)
	assert.Equal(t, 2, bootstrap.CurrentGW())
	assert.Equal(t, "2025-08-15T17:30:00Z", bootstrap.Events[0].DeadlineTime)
}

func TestFetchLeagueMembersPaginates(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page_standings") {
		case "1":
			_, _ = w.Write([]byte(`{"standings":{"results":[{"entry":10,"player_name":"Ada","entry_name":"Lovelace XI"}],"has_next":true}}`))
		case "2":
			_, _ = w.Write([]byte(`{"standings":{"results":[{"entry":20,"player_name":"Alan","entry_name":"Turing Town"}],"has_next":false}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))

	managers, err := client.FetchLeagueMembers(context.Background(), 123)
	require.NoError(t, err)
	require.Len(t, managers, 2)
	assert.Equal(t, 10, managers[0].EntryID)
	assert.Equal(t, "Turing Town", managers[1].TeamName)
}

func TestFetchEntryHistory(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entry/42/history/", r.URL.Path)
		_, _ = w.Write([]byte(`{"current":[{"event":1,"points":60,"total_points":60,"event_transfers_cost":4}]}`))
	}))

	history, err := client.FetchEntryHistory(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, history.Current, 1)
	assert.Equal(t, 60, history.Current[0].Points)
	assert.Equal(t, 4, history.Current[0].TransfersCost)
}

func TestRetriesOnServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"elements":[{"id":7,"stats":{"total_points":12}}]}`))
	}))

	live, err := client.FetchEventLive(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 12, live.PointsByElement()[7])
}

func TestDoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchEntryPicks(context.Background(), 42, 1)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
