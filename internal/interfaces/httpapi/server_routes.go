package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/dashboard", handler.GetDashboard)
	mux.HandleFunc("GET /v1/countries", handler.ListCountries)
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}", handler.GetFixture)
	mux.HandleFunc("GET /v1/sync-runs", handler.ListRuns)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncJob)))
	mux.Handle("POST /v1/internal/jobs/sync-live", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncLiveJob)))
	mux.Handle("POST /v1/internal/jobs/deactivate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunDeactivateJob)))
}
