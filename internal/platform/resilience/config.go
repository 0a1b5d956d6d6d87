package resilience

import "time"

// CircuitBreakerConfig tunes the breaker guarding an upstream stats feed.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// DefaultCircuitBreakerConfig is the baseline the feed clients start from
// when the environment leaves the breaker untuned.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// NormalizeCircuitBreakerConfig keeps the caller's usable values and falls
// back to the defaults for anything zero or nonsensical, so a partially
// configured breaker still behaves.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	out := DefaultCircuitBreakerConfig()
	out.Enabled = cfg.Enabled
	if cfg.FailureThreshold >= 1 {
		out.FailureThreshold = cfg.FailureThreshold
	}
	if cfg.OpenTimeout > 0 {
		out.OpenTimeout = cfg.OpenTimeout
	}
	if cfg.HalfOpenMaxReq >= 1 {
		out.HalfOpenMaxReq = cfg.HalfOpenMaxReq
	}
	return out
}
