package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/zaferkucuk/oover-sync/internal/domain/fixture"
	"github.com/zaferkucuk/oover-sync/internal/platform/logging"
	"github.com/zaferkucuk/oover-sync/internal/usecase"
)

type Handler struct {
	catalogService   *usecase.CatalogService
	dashboardService *usecase.DashboardService
	syncService      *usecase.SyncService
	syncWorkers      int
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	dashboardService *usecase.DashboardService,
	syncService *usecase.SyncService,
	syncWorkers int,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if syncWorkers < 1 {
		syncWorkers = 1
	}

	return &Handler{
		catalogService:   catalogService,
		dashboardService: dashboardService,
		syncService:      syncService,
		syncWorkers:      syncWorkers,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	dashboard, err := h.dashboardService.Get(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboard)
}

func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCountries")
	defer span.End()

	countries, err := h.catalogService.ListCountries(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list countries failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]countryDTO, 0, len(countries))
	for _, c := range countries {
		items = append(items, countryToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	season, err := queryInt(r, "season", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagues, err := h.catalogService.ListLeagues(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.catalogService.ListTeams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	filter, err := fixtureFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.catalogService.ListFixtures(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "league", filter.LeagueExternalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	externalID := r.PathValue("fixtureID")
	item, err := h.catalogService.GetFixture(ctx, externalID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture failed", "fixture_id", externalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(item))
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRuns")
	defer span.End()

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	runs, err := h.catalogService.ListRuns(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runs)
}

func fixtureFilterFromQuery(r *http.Request) (fixture.ListFilter, error) {
	filter := fixture.ListFilter{
		LeagueExternalID: strings.TrimSpace(r.URL.Query().Get("league")),
		Status:           strings.TrimSpace(r.URL.Query().Get("status")),
	}

	season, err := queryInt(r, "season", 0)
	if err != nil {
		return fixture.ListFilter{}, err
	}
	filter.Season = season

	from, err := queryDate(r, "from")
	if err != nil {
		return fixture.ListFilter{}, err
	}
	filter.DateFrom = from

	to, err := queryDate(r, "to")
	if err != nil {
		return fixture.ListFilter{}, err
	}
	filter.DateTo = to

	return filter, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, key, raw)
	}
	return value, nil
}

func queryDate(r *http.Request, key string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}, nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date, got %q", usecase.ErrInvalidInput, key, raw)
	}
	return value, nil
}
