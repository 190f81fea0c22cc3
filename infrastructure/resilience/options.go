package resilience

import "time"

// Option adjusts one concern of the executor configuration.
type Option func(*ExecutorConfig)

// WithConcurrencyLimit caps simultaneous tool executions in the act phase.
func WithConcurrencyLimit(n int) Option {
	return func(c *ExecutorConfig) {
		c.MaxConcurrent = n
	}
}

// WithBreaker sets the consecutive-failure threshold and the cooldown the
// circuit stays open before probing again.
func WithBreaker(threshold int, cooldown time.Duration) Option {
	return func(c *ExecutorConfig) {
		c.CircuitBreakerThreshold = threshold
		c.CircuitBreakerTimeout = cooldown
	}
}

// WithRetry configures the retry policy applied to idempotent tools. A zero
// multiplier keeps the default backoff.
func WithRetry(attempts int, initialDelay time.Duration, multiplier float64) Option {
	return func(c *ExecutorConfig) {
		c.RetryMaxAttempts = attempts
		c.RetryInitialDelay = initialDelay
		if multiplier > 0 {
			c.RetryBackoffMultiplier = multiplier
		}
	}
}

// WithTimeout sets the per-execution deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *ExecutorConfig) {
		c.DefaultTimeout = d
	}
}

// NewExecutorWithOptions creates an executor from defaults plus options.
func NewExecutorWithOptions(opts ...Option) *Executor {
	config := DefaultExecutorConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewExecutor(config)
}
