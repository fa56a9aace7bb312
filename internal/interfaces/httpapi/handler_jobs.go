package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/zaferkucuk/oover-sync/internal/transform"
	"github.com/zaferkucuk/oover-sync/internal/usecase"
)

type syncJobRequest struct {
	Resource string `json:"resource" validate:"omitempty,oneof=country league team fixture"`
	League   string `json:"league"`
	Season   int    `json:"season" validate:"gte=0"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	All      bool   `json:"all"`
	Workers  int    `json:"workers" validate:"gte=0"`
}

type syncLiveJobRequest struct {
	League string `json:"league"`
}

type deactivateJobRequest struct {
	Resource    string   `json:"resource" validate:"required,oneof=country league team fixture"`
	ExternalIDs []string `json:"external_ids" validate:"required,min=1,dive,required"`
}

// RunSyncJob runs a full sync for one resource, or for all resources in
// dependency order when all=true.
func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

	var req syncJobRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	params, err := fetchParamsFromRequest(req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if req.All {
		workers := req.Workers
		if workers < 1 {
			workers = h.syncWorkers
		}
		result, err := h.syncService.SyncAll(ctx, params, workers)
		if err != nil {
			h.logger.WarnContext(ctx, "sync all job failed", "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, result)
		return
	}

	resource, ok := transform.ParseResource(req.Resource)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: resource is required unless all=true", usecase.ErrInvalidInput))
		return
	}

	result, err := h.syncService.Sync(ctx, resource, params)
	if err != nil {
		h.logger.WarnContext(ctx, "sync job failed", "resource", string(resource), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunSyncLiveJob refreshes the volatile state of in-play fixtures.
func (h *Handler) RunSyncLiveJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncLiveJob")
	defer span.End()

	var req syncLiveJobRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.SyncLive(ctx, usecase.FetchParams{
		LeagueExternalID: strings.TrimSpace(req.League),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "sync live job failed", "league", req.League, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunDeactivateJob marks rows inactive by external id. Deactivation is
// never inferred from provider absence, only from this explicit call.
func (h *Handler) RunDeactivateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDeactivateJob")
	defer span.End()

	var req deactivateJobRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	resource, ok := transform.ParseResource(req.Resource)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown resource %q", usecase.ErrInvalidInput, req.Resource))
		return
	}

	affected, err := h.syncService.Deactivate(ctx, resource, req.ExternalIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "deactivate job failed", "resource", req.Resource, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"deactivated": affected})
}

func (h *Handler) decodeBody(r *http.Request, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	if err := h.validator.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func fetchParamsFromRequest(req syncJobRequest) (usecase.FetchParams, error) {
	params := usecase.FetchParams{
		LeagueExternalID: strings.TrimSpace(req.League),
		Season:           req.Season,
	}

	if strings.TrimSpace(req.Date) != "" {
		date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
		if err != nil {
			return usecase.FetchParams{}, fmt.Errorf("%w: date must be a YYYY-MM-DD date, got %q", usecase.ErrInvalidInput, req.Date)
		}
		params.Date = date
	}

	return params, nil
}
