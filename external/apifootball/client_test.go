package apifootball

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/zaferkucuk/oover-sync/internal/platform/logging"
	"github.com/zaferkucuk/oover-sync/internal/platform/resilience"
	"github.com/zaferkucuk/oover-sync/internal/transform"
	"github.com/zaferkucuk/oover-sync/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Token:      "secret-key",
		MaxRetries: maxRetries,
		Budget:     BudgetConfig{RequestsPerMinute: 1000, RequestsPerDay: 10000, SafetyFraction: 1},
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 100,
		},
	})
	client.budget.pacer = rate.NewLimiter(rate.Inf, 0)
	return client
}

func countriesBody(names ...string) string {
	items := ""
	for i, name := range names {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{"name":%q,"code":"XX","flag":""}`, name)
	}
	return `{"get":"countries","errors":[],"results":` + fmt.Sprint(len(names)) +
		`,"paging":{"current":1,"total":1},"response":[` + items + `]}`
}

func TestClient_FetchSplitsRecords(t *testing.T) {
	var gotAuth atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get(authHeader))
		fmt.Fprint(w, countriesBody("England", "France"))
	})

	client := newTestClient(t, handler, 0)
	result, err := client.Fetch(context.Background(), transform.ResourceCountry, usecase.FetchParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if result.Meta.Requests != 1 {
		t.Fatalf("expected 1 request, got %d", result.Meta.Requests)
	}
	if result.Meta.CacheTTL != 24*time.Hour {
		t.Fatalf("expected 24h cache ttl for countries, got %s", result.Meta.CacheTTL)
	}
	if got, _ := gotAuth.Load().(string); got != "secret-key" {
		t.Fatalf("expected auth header to carry key, got %q", got)
	}
}

func TestClient_FetchFollowsPaging(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		calls.Add(1)
		if page == "" || page == "1" {
			fmt.Fprint(w, `{"get":"teams","errors":[],"results":1,"paging":{"current":1,"total":2},"response":[{"team":{"id":1}}]}`)
			return
		}
		fmt.Fprint(w, `{"get":"teams","errors":[],"results":1,"paging":{"current":2,"total":2},"response":[{"team":{"id":2}}]}`)
	})

	client := newTestClient(t, handler, 0)
	result, err := client.Fetch(context.Background(), transform.ResourceTeam, usecase.FetchParams{
		LeagueExternalID: "39",
		Season:           2024,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected records from both pages, got %d", len(result.Records))
	}
	if result.Meta.Requests != 2 || calls.Load() != 2 {
		t.Fatalf("expected 2 requests, meta=%d calls=%d", result.Meta.Requests, calls.Load())
	}
}

func TestClient_RetriesTransientThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, countriesBody("England"))
	})

	client := newTestClient(t, handler, 2)
	result, err := client.Fetch(context.Background(), transform.ResourceCountry, usecase.FetchParams{})
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestClient_PermanentFailureDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	client := newTestClient(t, handler, 3)
	_, err := client.Fetch(context.Background(), transform.ResourceCountry, usecase.FetchParams{})
	if !errors.Is(err, usecase.ErrPermanentFetch) {
		t.Fatalf("expected permanent fetch error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestClient_TooManyRequestsIsTransient(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	client := newTestClient(t, handler, 0)
	_, err := client.Fetch(context.Background(), transform.ResourceCountry, usecase.FetchParams{})
	if !errors.Is(err, usecase.ErrTransientFetch) {
		t.Fatalf("expected transient fetch error for 429, got %v", err)
	}
}

func TestClient_BudgetStopsBeforeRequest(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, countriesBody("England"))
	})

	client := newTestClient(t, handler, 0)
	client.budget = NewBudget(BudgetConfig{RequestsPerMinute: 2, RequestsPerDay: 1000, SafetyFraction: 1})
	client.budget.pacer = rate.NewLimiter(rate.Inf, 0)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.Fetch(ctx, transform.ResourceCountry, usecase.FetchParams{}); err != nil {
			t.Fatalf("fetch %d within budget failed: %v", i+1, err)
		}
	}
	_, err := client.Fetch(ctx, transform.ResourceCountry, usecase.FetchParams{})
	if !errors.Is(err, usecase.ErrRateLimitExceeded) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected no request past the budget, got %d calls", calls.Load())
	}
}

func TestClient_CoalescedFetchesShareBudgetSlot(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(arrived)
			<-release
		}
		fmt.Fprint(w, countriesBody("England"))
	})

	client := newTestClient(t, handler, 0)
	client.budget = NewBudget(BudgetConfig{RequestsPerMinute: 1, RequestsPerDay: 1000, SafetyFraction: 1})
	client.budget.pacer = rate.NewLimiter(rate.Inf, 0)

	errs := make(chan error, 2)
	fetch := func() {
		_, err := client.Fetch(context.Background(), transform.ResourceCountry, usecase.FetchParams{})
		errs <- err
	}
	go fetch()
	<-arrived
	go fetch()
	time.Sleep(50 * time.Millisecond)
	close(release)

	// Budget allows a single request; both callers must share it.
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("coalesced fetch failed: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream request, got %d", calls.Load())
	}
}

func TestClient_ProviderErrorObjectIsPermanent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"get":"fixtures","errors":{"season":"field is required"},"results":0,"paging":{"current":1,"total":1},"response":[]}`)
	})

	client := newTestClient(t, handler, 0)
	_, err := client.Fetch(context.Background(), transform.ResourceCountry, usecase.FetchParams{})
	if !errors.Is(err, usecase.ErrPermanentFetch) {
		t.Fatalf("expected permanent fetch error for provider rejection, got %v", err)
	}
}

func TestClient_ParamValidation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for invalid params")
	}), 0)

	_, err := client.Fetch(context.Background(), transform.ResourceTeam, usecase.FetchParams{})
	if !errors.Is(err, usecase.ErrInvalidParams) {
		t.Fatalf("expected invalid params error for teams without league, got %v", err)
	}

	_, err = client.Fetch(context.Background(), transform.ResourceFixture, usecase.FetchParams{})
	if !errors.Is(err, usecase.ErrInvalidParams) {
		t.Fatalf("expected invalid params error for unscoped fixtures, got %v", err)
	}
}

func TestClient_LiveFixtureTTL(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("live") != "all" {
			t.Errorf("expected live=all query, got %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"get":"fixtures","errors":[],"results":0,"paging":{"current":1,"total":1},"response":[]}`)
	})

	client := newTestClient(t, handler, 0)
	result, err := client.Fetch(context.Background(), transform.ResourceFixture, usecase.FetchParams{Live: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Meta.CacheTTL != 15*time.Second {
		t.Fatalf("expected live ttl 15s, got %s", result.Meta.CacheTTL)
	}
}
