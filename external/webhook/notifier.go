// Package webhook pushes finished run summaries to an operator endpoint,
// typically a chat integration. Delivery is best effort: the sync run is
// already recorded when the notifier fires.
package webhook

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/zaferkucuk/oover-sync/internal/domain/syncrun"
	"github.com/zaferkucuk/oover-sync/internal/platform/logging"
	"github.com/zaferkucuk/oover-sync/internal/platform/resilience"
	"github.com/zaferkucuk/oover-sync/internal/usecase"
)

const maxErrorPreview = 5

var errWebhookTransient = crerr.New("webhook transient failure")

type NotifierConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Notifier struct {
	client         *fasthttp.Client
	url            string
	token          string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

var _ usecase.RunNotifier = (*Notifier)(nil)

func NewNotifier(cfg NotifierConfig, logger *logging.Logger) *Notifier {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Notifier{
		client:         &fasthttp.Client{Name: "oover-sync-webhook"},
		url:            strings.TrimSpace(cfg.URL),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.Cooldown, breakerCfg.ProbeBudget),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type runPayload struct {
	Text string         `json:"text"`
	Run  syncrun.Result `json:"run"`
}

func (n *Notifier) NotifyRunFinished(ctx context.Context, result syncrun.Result) error {
	if n.url == "" {
		return nil
	}
	if n.circuitEnabled {
		if err := n.breaker.Allow(); err != nil {
			n.logger.WarnContext(ctx, "webhook circuit breaker rejected request", "state", n.breaker.State())
			return crerr.Wrap(usecase.ErrDependencyUnavailable, "webhook endpoint is temporarily unavailable")
		}
	}

	body, err := sonic.Marshal(runPayload{
		Text: renderText(result),
		Run:  result,
	})
	if err != nil {
		return crerr.Wrap(err, "marshal run payload")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(n.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if n.token != "" {
		req.Header.Set("X-Webhook-Token", n.token)
	}
	req.SetBody(body)

	callErr := n.client.DoTimeout(req, resp, n.timeout)
	if callErr != nil {
		callErr = crerr.Wrapf(errWebhookTransient, "post run summary: %v", callErr)
	} else if code := resp.StatusCode(); code/100 != 2 {
		if code == fasthttp.StatusTooManyRequests || code >= fasthttp.StatusInternalServerError {
			callErr = crerr.Wrapf(errWebhookTransient, "webhook status=%d", code)
		} else {
			callErr = crerr.Newf("webhook status=%d", code)
		}
	}
	n.recordCircuitResult(callErr)
	if callErr != nil {
		return callErr
	}

	n.logger.InfoContext(ctx, "run summary delivered", "run_id", result.RunID, "resource", result.Resource)
	return nil
}

// renderText builds the one-line chat message. The pooled buffer keeps
// the frequent live-sync notifications allocation-light.
func renderText(result syncrun.Result) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("sync ")
	_, _ = buf.WriteString(result.Resource)
	_, _ = buf.WriteString(" [")
	_, _ = buf.WriteString(string(result.State))
	_, _ = buf.WriteString("] ")
	_, _ = buf.WriteString(result.Summary())
	if duration := result.Duration(); duration > 0 {
		_, _ = buf.WriteString(" duration=")
		_, _ = buf.WriteString(duration.Round(time.Millisecond).String())
	}
	for idx, recErr := range result.Errors {
		if idx >= maxErrorPreview {
			_, _ = buf.WriteString(" | ...")
			break
		}
		_, _ = buf.WriteString(" | ")
		_, _ = buf.WriteString(recErr.Stage)
		_, _ = buf.WriteString(" ")
		_, _ = buf.WriteString(recErr.ExternalID)
		_, _ = buf.WriteString(": ")
		_, _ = buf.WriteString(recErr.Message)
	}
	return buf.String()
}

func (n *Notifier) recordCircuitResult(err error) {
	if !n.circuitEnabled || n.breaker == nil {
		return
	}
	if err != nil && crerr.Is(err, errWebhookTransient) {
		n.breaker.RecordFailure()
		return
	}
	n.breaker.RecordSuccess()
}
