// Package resilience holds the small dependency-protection primitives
// shared by the provider client and the webhook notifier.
package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker trips after a run of consecutive failures and lets a
// bounded number of probe requests through once the cooldown elapses.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	cooldown         time.Duration
	probeBudget      int

	state          CircuitState
	failureStreak  int
	trippedAt      time.Time
	probesInFlight int
	probesPassed   int
	now            func() time.Time
}

func NewCircuitBreaker(failureThreshold int, cooldown time.Duration, probeBudget int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if cooldown <= 0 {
		cooldown = 15 * time.Second
	}
	if probeBudget < 1 {
		probeBudget = 1
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		probeBudget:      probeBudget,
		state:            CircuitStateClosed,
		now:              time.Now,
	}
}

// Allow reports whether a request may proceed. In half-open state it also
// reserves one probe slot; the caller must follow up with RecordSuccess
// or RecordFailure.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.trippedAt) < b.cooldown {
			return ErrCircuitOpen
		}
		b.enterHalfOpen()
	}

	if b.state == CircuitStateHalfOpen {
		if b.probesInFlight >= b.probeBudget {
			return ErrCircuitOpen
		}
		b.probesInFlight++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failureStreak = 0
	case CircuitStateHalfOpen:
		if b.probesInFlight > 0 {
			b.probesInFlight--
		}
		b.probesPassed++
		if b.probesPassed >= b.probeBudget && b.probesInFlight == 0 {
			b.reset()
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failureStreak++
		if b.failureStreak >= b.failureThreshold {
			b.trip()
		}
	case CircuitStateHalfOpen:
		if b.probesInFlight > 0 {
			b.probesInFlight--
		}
		b.trip()
	case CircuitStateOpen:
		b.trippedAt = b.now()
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.trippedAt) >= b.cooldown {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) reset() {
	b.state = CircuitStateClosed
	b.failureStreak = 0
	b.probesInFlight = 0
	b.probesPassed = 0
	b.trippedAt = time.Time{}
}

func (b *CircuitBreaker) trip() {
	b.state = CircuitStateOpen
	b.trippedAt = b.now()
	b.probesInFlight = 0
	b.probesPassed = 0
}

func (b *CircuitBreaker) enterHalfOpen() {
	b.state = CircuitStateHalfOpen
	b.probesInFlight = 0
	b.probesPassed = 0
}
