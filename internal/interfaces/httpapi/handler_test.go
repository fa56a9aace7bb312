package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/zaferkucuk/oover-sync/internal/domain/country"
	"github.com/zaferkucuk/oover-sync/internal/infrastructure/repository/memory"
	"github.com/zaferkucuk/oover-sync/internal/platform/logging"
	"github.com/zaferkucuk/oover-sync/internal/transform"
	"github.com/zaferkucuk/oover-sync/internal/usecase"
)

const testJobToken = "job-secret"

type staticProvider struct {
	records map[transform.Resource][]transform.Record
}

func (p *staticProvider) Fetch(_ context.Context, resource transform.Resource, _ usecase.FetchParams) (usecase.FetchResult, error) {
	return usecase.FetchResult{
		Records: p.records[resource],
		Meta:    usecase.FetchMeta{Requests: 1, CacheTTL: time.Hour, FetchedAt: time.Now().UTC()},
	}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *memory.CountryRepository) {
	t.Helper()

	countries := memory.NewCountryRepository()
	leagues := memory.NewLeagueRepository()
	teams := memory.NewTeamRepository()
	fixtures := memory.NewFixtureRepository()
	runs := memory.NewSyncRunRepository()

	provider := &staticProvider{records: map[transform.Resource][]transform.Record{
		transform.ResourceCountry: {
			transform.Record(`{"name":"England","code":"GB","flag":"https://flags.test/gb.svg"}`),
		},
	}}

	syncService := usecase.NewSyncService(usecase.SyncServiceDeps{
		Provider:  provider,
		Countries: countries,
		Leagues:   leagues,
		Teams:     teams,
		Fixtures:  fixtures,
		Runs:      runs,
		Logger:    logging.NewNop(),
	})
	catalogService := usecase.NewCatalogService(countries, leagues, teams, fixtures, runs)
	dashboardService := usecase.NewDashboardService(countries, leagues, teams, fixtures, runs)

	handler := NewHandler(catalogService, dashboardService, syncService, 2, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), []string{"*"}, testJobToken), countries
}

func TestRouter_Healthz(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_SyncJobThenListCountries(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync", strings.NewReader(`{"resource":"country"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var syncBody struct {
		Data struct {
			State   string `json:"state"`
			Created int    `json:"created"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &syncBody); err != nil {
		t.Fatalf("unmarshal sync response: %v", err)
	}
	if syncBody.Data.State != "done" {
		t.Fatalf("expected run state done, got %q", syncBody.Data.State)
	}
	if syncBody.Data.Created != 1 {
		t.Fatalf("expected 1 created, got %d", syncBody.Data.Created)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/v1/countries", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)

	if listRec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", listRec.Code)
	}

	var listBody struct {
		Data []countryDTO `json:"data"`
	}
	if err := sonic.Unmarshal(listRec.Body.Bytes(), &listBody); err != nil {
		t.Fatalf("unmarshal list response: %v", err)
	}
	if len(listBody.Data) != 1 {
		t.Fatalf("expected 1 country, got %d", len(listBody.Data))
	}
	if listBody.Data[0].ExternalID != "england" {
		t.Fatalf("unexpected external id: %q", listBody.Data[0].ExternalID)
	}
}

func TestRouter_SyncJobRejectsBadResource(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync", strings.NewReader(`{"resource":"player"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_SyncJobRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync", strings.NewReader(`{"resource":"country"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_GetFixtureNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/fixtures/999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouter_DeactivateJob(t *testing.T) {
	router, countries := newTestRouter(t)

	if _, err := countries.Insert(context.Background(), country.Country{
		ExternalID: "france",
		Name:       "France",
		IsActive:   true,
	}); err != nil {
		t.Fatalf("seed country: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/deactivate", strings.NewReader(`{"resource":"country","external_ids":["france"]}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data map[string]int `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Data["deactivated"] != 1 {
		t.Fatalf("expected 1 deactivated, got %d", body.Data["deactivated"])
	}
}
