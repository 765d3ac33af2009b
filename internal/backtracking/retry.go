package backtracking

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/reef-chain/explorer-backtracker/internal/logger"
)

// RetryPolicy decides whether a queued contract is attempted in the current polling cycle
//
//go:generate mockgen -source=retry.go -destination=../mocks/retry.go -package=mocks -mock_names=RetryPolicy=MockRetryPolicy
type RetryPolicy interface {
	// ShouldAttempt reports whether contract may be processed at now
	ShouldAttempt(contract string, now time.Time) bool

	// RecordFailure registers a failed attempt at now
	RecordFailure(contract string, now time.Time)

	// RecordSuccess forgets the contract's failure history
	RecordSuccess(contract string)
}

// RetryForever attempts every queued contract on every cycle
type RetryForever struct{}

// NewRetryForever creates the default policy
func NewRetryForever() RetryPolicy {
	return RetryForever{}
}

func (RetryForever) ShouldAttempt(string, time.Time) bool { return true }
func (RetryForever) RecordFailure(string, time.Time)      {}
func (RetryForever) RecordSuccess(string)                 {}

// ExponentialRetryConfig configures the per contract backoff
type ExponentialRetryConfig struct {
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	Multiplier          float64
	RandomizationFactor float64
}

type retryState struct {
	backoff     backoff.BackOff
	nextAttempt time.Time
	failures    int
}

// ExponentialRetry delays a failing contract exponentially, without ever giving up on it
type ExponentialRetry struct {
	config ExponentialRetryConfig
	mu     sync.Mutex
	states map[string]*retryState
}

// NewExponentialRetry creates an exponential backoff policy
func NewExponentialRetry(config ExponentialRetryConfig) *ExponentialRetry {
	if config.Multiplier <= 0 {
		config.Multiplier = backoff.DefaultMultiplier
	}
	return &ExponentialRetry{
		config: config,
		states: make(map[string]*retryState),
	}
}

func (r *ExponentialRetry) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.InitialInterval
	b.MaxInterval = r.config.MaxInterval
	b.Multiplier = r.config.Multiplier
	b.RandomizationFactor = r.config.RandomizationFactor
	b.MaxElapsedTime = 0 // never stop retrying
	b.Reset()
	return b
}

// ShouldAttempt reports whether the contract's backoff delay has elapsed
func (r *ExponentialRetry) ShouldAttempt(contract string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[contract]
	if !ok {
		return true
	}
	return !now.Before(state.nextAttempt)
}

// RecordFailure schedules the next attempt of the contract
func (r *ExponentialRetry) RecordFailure(contract string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.states[contract]
	if !ok {
		state = &retryState{backoff: r.newBackOff()}
		r.states[contract] = state
	}

	delay := state.backoff.NextBackOff()
	if delay == backoff.Stop {
		delay = r.config.MaxInterval
	}
	state.failures++
	state.nextAttempt = now.Add(delay)

	logger.Warn("Contract backing off",
		zap.String("contract", contract),
		zap.Int("failures", state.failures),
		zap.Time("next_attempt", state.nextAttempt),
	)
}

// RecordSuccess clears the contract's backoff
func (r *ExponentialRetry) RecordSuccess(contract string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, contract)
}
