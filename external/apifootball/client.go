// Package apifootball implements the outbound provider client. It is
// the only package that knows the provider's URL scheme, auth header and
// paging; everything above it sees resources and raw records.
package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zaferkucuk/oover-sync/internal/platform/logging"
	"github.com/zaferkucuk/oover-sync/internal/platform/resilience"
	"github.com/zaferkucuk/oover-sync/internal/transform"
	"github.com/zaferkucuk/oover-sync/internal/usecase"
)

const (
	defaultBaseURL     = "https://v3.football.api-sports.io"
	authHeader         = "x-apisports-key"
	maxResponseBody    = 8 << 20
	maxPages           = 50
	baseRetryBackoff   = 500 * time.Millisecond
	defaultHTTPTimeout = 20 * time.Second
)

// CacheTTLConfig carries the advisory freshness window per resource.
// Reference data barely moves; the live feed is stale within seconds.
type CacheTTLConfig struct {
	Countries    time.Duration
	Leagues      time.Duration
	Teams        time.Duration
	Fixtures     time.Duration
	FixturesLive time.Duration
}

func DefaultCacheTTLConfig() CacheTTLConfig {
	return CacheTTLConfig{
		Countries:    24 * time.Hour,
		Leagues:      24 * time.Hour,
		Teams:        24 * time.Hour,
		Fixtures:     time.Hour,
		FixturesLive: 15 * time.Second,
	}
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Budget         BudgetConfig
	CacheTTL       CacheTTLConfig
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	budget         *Budget
	cacheTTL       CacheTTLConfig
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

var _ usecase.FetchProvider = (*Client)(nil)

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
		httpClient.Timeout = defaultHTTPTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	ttl := cfg.CacheTTL
	if ttl == (CacheTTLConfig{}) {
		ttl = DefaultCacheTTLConfig()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     max(cfg.MaxRetries, 0),
		budget:         NewBudget(cfg.Budget),
		cacheTTL:       ttl,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.Cooldown, breakerCfg.ProbeBudget),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Fetch retrieves all pages for one resource and returns the raw items.
// The request count in the meta includes every page.
func (c *Client) Fetch(ctx context.Context, resource transform.Resource, params usecase.FetchParams) (usecase.FetchResult, error) {
	path, query, err := buildQuery(resource, params)
	if err != nil {
		return usecase.FetchResult{}, err
	}

	records := make([]transform.Record, 0, 64)
	requests := 0
	for page := 1; ; page++ {
		if page > maxPages {
			return usecase.FetchResult{}, crerr.Wrapf(usecase.ErrPermanentFetch,
				"pagination for %s exceeded %d pages", resource, maxPages)
		}
		if page > 1 {
			query.Set("page", fmt.Sprint(page))
		}

		env, err := c.fetchPage(ctx, path, query)
		if err != nil {
			return usecase.FetchResult{}, err
		}
		requests++

		for _, item := range env.Response {
			records = append(records, transform.Record(item))
		}
		if env.Paging.Total <= env.Paging.Current {
			break
		}
	}

	minuteLeft, dayLeft := c.budget.Remaining()
	c.logger.DebugContext(ctx, "provider fetch completed",
		"resource", string(resource),
		"records", len(records),
		"requests", requests,
		"budget_minute_left", minuteLeft,
		"budget_day_left", dayLeft,
	)

	return usecase.FetchResult{
		Records: records,
		Meta: usecase.FetchMeta{
			Requests:  requests,
			CacheTTL:  c.ttlFor(resource, params.Live),
			FetchedAt: time.Now().UTC(),
		},
	}, nil
}

// FetchCountries retrieves the full country list.
func (c *Client) FetchCountries(ctx context.Context) (usecase.FetchResult, error) {
	return c.Fetch(ctx, transform.ResourceCountry, usecase.FetchParams{})
}

// FetchLeagues retrieves all leagues for a season.
func (c *Client) FetchLeagues(ctx context.Context, season int) (usecase.FetchResult, error) {
	return c.Fetch(ctx, transform.ResourceLeague, usecase.FetchParams{Season: season})
}

// FetchTeams retrieves the teams playing in one league season.
func (c *Client) FetchTeams(ctx context.Context, leagueExternalID string, season int) (usecase.FetchResult, error) {
	return c.Fetch(ctx, transform.ResourceTeam, usecase.FetchParams{
		LeagueExternalID: leagueExternalID,
		Season:           season,
	})
}

// FetchFixtures retrieves fixtures matching the given parameters.
func (c *Client) FetchFixtures(ctx context.Context, params usecase.FetchParams) (usecase.FetchResult, error) {
	return c.Fetch(ctx, transform.ResourceFixture, params)
}

// FetchLiveFixtures retrieves only fixtures currently in play.
func (c *Client) FetchLiveFixtures(ctx context.Context, leagueExternalID string) (usecase.FetchResult, error) {
	return c.Fetch(ctx, transform.ResourceFixture, usecase.FetchParams{
		LeagueExternalID: leagueExternalID,
		Live:             true,
	})
}

func (c *Client) fetchPage(ctx context.Context, path string, query url.Values) (envelope, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "provider circuit breaker rejected request", "state", c.breaker.State())
			return envelope{}, crerr.Wrap(usecase.ErrDependencyUnavailable, "football data provider is temporarily unavailable")
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// Reserve inside the flight so coalesced callers burn one budget
	// slot per HTTP request, not one per caller.
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		if reserveErr := c.budget.Reserve(ctx); reserveErr != nil {
			return nil, reserveErr
		}
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, usecase.ErrTransientFetch) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return envelope{}, err
	}
	raw, ok := out.([]byte)
	if !ok {
		return envelope{}, crerr.Newf("unexpected response payload type %T", out)
	}

	var env envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return envelope{}, crerr.Wrap(usecase.ErrPermanentFetch, "decode provider envelope: "+c.sanitize(err.Error()))
	}
	if provErrs := env.providerErrors(); provErrs != nil {
		return envelope{}, crerr.Wrapf(usecase.ErrPermanentFetch, "provider rejected request: %v", provErrs)
	}
	return env, nil
}

// executeRequest sends one HTTP request with exponential backoff on
// transient failures. A 429 is transient: the provider window resets
// within a minute, the backoff usually outlasts it.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrap(err, "build request")
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(authHeader, c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Wrapf(usecase.ErrTransientFetch, "send request: %s", c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(usecase.ErrTransientFetch, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(usecase.ErrTransientFetch, "provider status=%d body=%s", resp.StatusCode, abbreviate(raw))
			default:
				return nil, crerr.Wrapf(usecase.ErrPermanentFetch, "provider status=%d body=%s", resp.StatusCode, abbreviate(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := baseRetryBackoff << attempt
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.Wrap(usecase.ErrTransientFetch, "provider request failed")
	}
	c.logger.WarnContext(ctx, "provider request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// buildQuery validates the parameter combination for a resource and
// produces the provider path and query string.
func buildQuery(resource transform.Resource, params usecase.FetchParams) (string, url.Values, error) {
	query := url.Values{}
	switch resource {
	case transform.ResourceCountry:
		return "/countries", query, nil

	case transform.ResourceLeague:
		if params.Season > 0 {
			query.Set("season", fmt.Sprint(params.Season))
		}
		return "/leagues", query, nil

	case transform.ResourceTeam:
		if params.LeagueExternalID == "" || params.Season <= 0 {
			return "", nil, crerr.Wrap(usecase.ErrInvalidParams, "teams require league and season")
		}
		query.Set("league", params.LeagueExternalID)
		query.Set("season", fmt.Sprint(params.Season))
		return "/teams", query, nil

	case transform.ResourceFixture:
		switch {
		case params.Live:
			if params.LeagueExternalID != "" {
				query.Set("live", params.LeagueExternalID)
			} else {
				query.Set("live", "all")
			}
		case !params.Date.IsZero():
			query.Set("date", params.Date.UTC().Format("2006-01-02"))
			if params.LeagueExternalID != "" {
				query.Set("league", params.LeagueExternalID)
			}
			if params.Season > 0 {
				query.Set("season", fmt.Sprint(params.Season))
			}
		case params.LeagueExternalID != "" && params.Season > 0:
			query.Set("league", params.LeagueExternalID)
			query.Set("season", fmt.Sprint(params.Season))
		default:
			return "", nil, crerr.Wrap(usecase.ErrInvalidParams,
				"fixtures require league and season, a date, or live mode")
		}
		return "/fixtures", query, nil

	default:
		return "", nil, crerr.Wrapf(usecase.ErrInvalidParams, "unknown resource %q", resource)
	}
}

func (c *Client) ttlFor(resource transform.Resource, live bool) time.Duration {
	switch resource {
	case transform.ResourceCountry:
		return c.cacheTTL.Countries
	case transform.ResourceLeague:
		return c.cacheTTL.Leagues
	case transform.ResourceTeam:
		return c.cacheTTL.Teams
	case transform.ResourceFixture:
		if live {
			return c.cacheTTL.FixturesLive
		}
		return c.cacheTTL.Fixtures
	default:
		return 0
	}
}

// sanitize strips the API key from error text before it can reach logs.
func (c *Client) sanitize(value string) string {
	if c.token == "" {
		return value
	}
	return strings.ReplaceAll(value, c.token, "REDACTED")
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviate(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
