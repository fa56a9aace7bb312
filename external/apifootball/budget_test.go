package apifootball

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/zaferkucuk/oover-sync/internal/usecase"
)

func TestBudget_MinuteWindow(t *testing.T) {
	b := NewBudget(BudgetConfig{RequestsPerMinute: 10, RequestsPerDay: 1000, SafetyFraction: 1})
	b.pacer = rate.NewLimiter(rate.Inf, 0)
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if err := b.Reserve(ctx); err != nil {
			t.Fatalf("reserve %d within budget failed: %v", i+1, err)
		}
	}
	if err := b.Reserve(ctx); !errors.Is(err, usecase.ErrRateLimitExceeded) {
		t.Fatalf("expected rate limit error on request 11, got %v", err)
	}

	now = now.Add(61 * time.Second)
	if err := b.Reserve(ctx); err != nil {
		t.Fatalf("expected fresh minute window to admit request: %v", err)
	}
}

func TestBudget_DayWindow(t *testing.T) {
	b := NewBudget(BudgetConfig{RequestsPerMinute: 1000, RequestsPerDay: 3, SafetyFraction: 1})
	b.pacer = rate.NewLimiter(rate.Inf, 0)
	now := time.Date(2026, 8, 20, 23, 59, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := b.Reserve(ctx); err != nil {
			t.Fatalf("reserve %d within budget failed: %v", i+1, err)
		}
	}
	if err := b.Reserve(ctx); !errors.Is(err, usecase.ErrRateLimitExceeded) {
		t.Fatalf("expected daily limit error, got %v", err)
	}

	now = now.Add(2 * time.Minute)
	if err := b.Reserve(ctx); err != nil {
		t.Fatalf("expected next UTC day to reset budget: %v", err)
	}
}

func TestBudget_SafetyFractionShrinksQuota(t *testing.T) {
	b := NewBudget(BudgetConfig{RequestsPerMinute: 10, RequestsPerDay: 100, SafetyFraction: 0.5})
	minute, day := b.Remaining()
	if minute != 5 {
		t.Fatalf("expected minute budget 5, got %d", minute)
	}
	if day != 50 {
		t.Fatalf("expected day budget 50, got %d", day)
	}
}
