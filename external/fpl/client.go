// Package fpl is the upstream fantasy game API client used to refresh raw
// snapshots. The derivation engine never calls it; only the ingest path
// does.
package fpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mindless-league/standings/internal/domain/gameweek"
	"github.com/mindless-league/standings/internal/domain/roster"
	"github.com/mindless-league/standings/internal/platform/logging"
)

const defaultBaseURL = "https://fantasy.premierleague.com/api"

var errFPLTransient = crerr.New("fpl transient failure")

type ClientConfig struct {
	HTTPClient   *http.Client
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RequestDelay time.Duration
	Logger       *logging.Logger
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	requestDelay time.Duration
	logger       *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		maxRetries:   maxRetries,
		requestDelay: cfg.RequestDelay,
		logger:       logger,
	}
}

// FetchBootstrap returns the upstream event calendar.
func (c *Client) FetchBootstrap(ctx context.Context) (gameweek.Bootstrap, error) {
	var envelope bootstrapEnvelope
	if err := c.doJSON(ctx, "/bootstrap-static/", &envelope); err != nil {
		return gameweek.Bootstrap{}, fmt.Errorf("fetch bootstrap: %w", err)
	}

	events := make([]gameweek.Event, 0, len(envelope.Events))
	for _, event := range envelope.Events {
		events = append(events, gameweek.Event{
			ID:           event.ID,
			Name:         event.Name,
			Finished:     event.Finished,
			IsCurrent:    event.IsCurrent,
			DeadlineTime: event.DeadlineTime,
		})
	}
	return gameweek.Bootstrap{Events: events}, nil
}

// FetchLeagueMembers pages through the classic league standings and
// returns every member as a roster manager.
func (c *Client) FetchLeagueMembers(ctx context.Context, leagueID int) ([]roster.Manager, error) {
	var managers []roster.Manager
	for page := 1; ; page++ {
		var envelope standingsPage
		path := fmt.Sprintf("/leagues-classic/%d/standings/?page_standings=%d", leagueID, page)
		if err := c.doJSON(ctx, path, &envelope); err != nil {
			return nil, fmt.Errorf("fetch league %d standings page %d: %w", leagueID, page, err)
		}

		for _, member := range envelope.Standings.Results {
			managers = append(managers, roster.Manager{
				EntryID:    member.Entry,
				PlayerName: member.PlayerName,
				TeamName:   member.EntryName,
			})
		}
		if !envelope.Standings.HasNext {
			break
		}
	}
	return managers, nil
}

// FetchEntryHistory returns one entrant's per-gameweek season history.
func (c *Client) FetchEntryHistory(ctx context.Context, entryID int) (gameweek.EntryHistory, error) {
	var envelope historyEnvelope
	path := fmt.Sprintf("/entry/%d/history/", entryID)
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return gameweek.EntryHistory{}, fmt.Errorf("fetch entry %d history: %w", entryID, err)
	}

	current := make([]gameweek.HistoryItem, 0, len(envelope.Current))
	for _, item := range envelope.Current {
		current = append(current, gameweek.HistoryItem{
			Event:         item.Event,
			Points:        item.Points,
			TotalPoints:   item.TotalPoints,
			TransfersCost: item.TransfersCost,
		})
	}
	return gameweek.EntryHistory{Current: current}, nil
}

// FetchEntryPicks returns one entrant's squad picks for a gameweek.
func (c *Client) FetchEntryPicks(ctx context.Context, entryID, gw int) ([]gameweek.Pick, error) {
	var envelope picksEnvelope
	path := fmt.Sprintf("/entry/%d/event/%d/picks/", entryID, gw)
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch entry %d picks gw %d: %w", entryID, gw, err)
	}

	picks := make([]gameweek.Pick, 0, len(envelope.Picks))
	for _, pick := range envelope.Picks {
		picks = append(picks, gameweek.Pick{
			Element:       pick.Element,
			Position:      pick.Position,
			Multiplier:    pick.Multiplier,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
		})
	}
	return picks, nil
}

// FetchEventLive returns the live element scores for a gameweek.
func (c *Client) FetchEventLive(ctx context.Context, gw int) (gameweek.LiveFile, error) {
	var envelope liveEnvelope
	path := fmt.Sprintf("/event/%d/live/", gw)
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return gameweek.LiveFile{}, fmt.Errorf("fetch event %d live: %w", gw, err)
	}

	elements := make([]gameweek.LiveElement, 0, len(envelope.Elements))
	for _, element := range envelope.Elements {
		elements = append(elements, gameweek.LiveElement{
			ID:    element.ID,
			Stats: gameweek.LiveElementStats{TotalPoints: element.Stats.TotalPoints},
		})
	}
	return gameweek.LiveFile{Elements: elements}, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.requestDelay > 0 {
		timer := time.NewTimer(c.requestDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	raw, err := c.executeRequest(ctx, c.baseURL+path)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode upstream payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("user-agent", "mindless-standings-ingest")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFPLTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFPLTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: upstream status=%d", errFPLTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("upstream status=%d url=%s", resp.StatusCode, fullURL)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 200 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("upstream request failed")
	}
	c.logger.WarnContext(ctx, "fpl request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
