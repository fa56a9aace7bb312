package apifootball

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/zaferkucuk/oover-sync/internal/usecase"
)

type BudgetConfig struct {
	RequestsPerMinute int
	RequestsPerDay    int
	// SafetyFraction is the share of the provider quota we allow
	// ourselves, leaving headroom for manual calls against the same
	// key. Zero means the default of 0.9.
	SafetyFraction float64
}

func DefaultBudgetConfig() BudgetConfig {
	return BudgetConfig{
		RequestsPerMinute: 30,
		RequestsPerDay:    7500,
		SafetyFraction:    0.9,
	}
}

// Budget is the process-local request budget against the provider quota.
// Reserve is called once per outgoing HTTP request, pages included, and
// fails proactively once either window is exhausted; it never sends a
// request the provider would count against an empty quota.
type Budget struct {
	mu sync.Mutex

	perMinute int
	perDay    int
	pacer     *rate.Limiter

	minuteStart time.Time
	minuteUsed  int
	dayStart    time.Time
	dayUsed     int

	now func() time.Time
}

func NewBudget(cfg BudgetConfig) *Budget {
	defaults := DefaultBudgetConfig()
	if cfg.RequestsPerMinute < 1 {
		cfg.RequestsPerMinute = defaults.RequestsPerMinute
	}
	if cfg.RequestsPerDay < 1 {
		cfg.RequestsPerDay = defaults.RequestsPerDay
	}
	if cfg.SafetyFraction <= 0 || cfg.SafetyFraction > 1 {
		cfg.SafetyFraction = defaults.SafetyFraction
	}

	perMinute := scaled(cfg.RequestsPerMinute, cfg.SafetyFraction)
	perDay := scaled(cfg.RequestsPerDay, cfg.SafetyFraction)

	return &Budget{
		perMinute: perMinute,
		perDay:    perDay,
		pacer:     rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		now:       time.Now,
	}
}

func scaled(limit int, fraction float64) int {
	out := int(float64(limit) * fraction)
	if out < 1 {
		out = 1
	}
	return out
}

// Reserve claims one request slot. On success the pacer additionally
// smooths the call rate so within-budget bursts do not hammer the
// provider.
func (b *Budget) Reserve(ctx context.Context) error {
	b.mu.Lock()
	now := b.now()
	b.roll(now)

	if b.dayUsed >= b.perDay {
		b.mu.Unlock()
		return crerr.Wrapf(usecase.ErrRateLimitExceeded, "daily budget of %d requests used", b.perDay)
	}
	if b.minuteUsed >= b.perMinute {
		b.mu.Unlock()
		return crerr.Wrapf(usecase.ErrRateLimitExceeded, "per-minute budget of %d requests used", b.perMinute)
	}
	b.minuteUsed++
	b.dayUsed++
	b.mu.Unlock()

	if err := b.pacer.Wait(ctx); err != nil {
		return crerr.Wrap(err, "pace request")
	}
	return nil
}

// Remaining reports the unused slots in both windows.
func (b *Budget) Remaining() (minute int, day int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roll(b.now())
	return b.perMinute - b.minuteUsed, b.perDay - b.dayUsed
}

func (b *Budget) roll(now time.Time) {
	if b.minuteStart.IsZero() || now.Sub(b.minuteStart) >= time.Minute {
		b.minuteStart = now
		b.minuteUsed = 0
	}
	day := now.UTC().Truncate(24 * time.Hour)
	if !day.Equal(b.dayStart) {
		b.dayStart = day
		b.dayUsed = 0
	}
}
