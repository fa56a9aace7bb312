package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
	"github.com/zaferkucuk/oover-sync/internal/platform/logging"
)

func testRun() syncrun.Result {
	return syncrun.Result{
		RunID:     "run-1",
		Resource:  "fixture",
		State:     syncrun.StateDone,
		Processed: 3,
		Created:   2,
		Failed:    1,
		Errors: []syncrun.RecordError{
			{ExternalID: "9", Stage: syncrun.StageTransform, Message: "bad status"},
		},
		StartedAt:  time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 8, 20, 10, 0, 2, 0, time.UTC),
	}
}

func TestNotifier_PostsRunSummary(t *testing.T) {
	var gotBody atomic.Value
	var gotToken atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(body)
		gotToken.Store(r.Header.Get("X-Webhook-Token"))
	}))
	defer server.Close()

	n := NewNotifier(NotifierConfig{URL: server.URL, Token: "hook-token"}, logging.NewNop())
	if err := n.NotifyRunFinished(context.Background(), testRun()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, _ := gotToken.Load().(string); got != "hook-token" {
		t.Fatalf("expected webhook token header, got %q", got)
	}
	var payload struct {
		Text string         `json:"text"`
		Run  syncrun.Result `json:"run"`
	}
	body, _ := gotBody.Load().([]byte)
	if err := sonic.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Run.RunID != "run-1" {
		t.Fatalf("expected run id in payload, got %q", payload.Run.RunID)
	}
	if !strings.Contains(payload.Text, "processed=3") || !strings.Contains(payload.Text, "bad status") {
		t.Fatalf("expected summary text with counters and errors, got %q", payload.Text)
	}
}

func TestNotifier_NoURLIsNoop(t *testing.T) {
	n := NewNotifier(NotifierConfig{}, logging.NewNop())
	if err := n.NotifyRunFinished(context.Background(), testRun()); err != nil {
		t.Fatalf("expected noop without url, got %v", err)
	}
}

func TestNotifier_ServerErrorReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewNotifier(NotifierConfig{URL: server.URL}, logging.NewNop())
	if err := n.NotifyRunFinished(context.Background(), testRun()); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
