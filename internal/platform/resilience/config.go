package resilience

import "time"

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	Cooldown         time.Duration
	ProbeBudget      int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		Cooldown:         15 * time.Second,
		ProbeBudget:      2,
	}
}

// NormalizeCircuitBreakerConfig fills zero and negative values with the
// defaults without touching Enabled.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaults.Cooldown
	}
	if cfg.ProbeBudget < 1 {
		cfg.ProbeBudget = defaults.ProbeBudget
	}
	return cfg
}
