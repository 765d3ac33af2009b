package backtracking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reef-chain/explorer-backtracker/internal/backtracking"
	"github.com/reef-chain/explorer-backtracker/internal/logger"
)

func TestRetryForever(t *testing.T) {
	policy := backtracking.NewRetryForever()
	now := time.Now()

	policy.RecordFailure("0xabc", now)
	policy.RecordFailure("0xabc", now)

	assert.True(t, policy.ShouldAttempt("0xabc", now))
	assert.True(t, policy.ShouldAttempt("0xdef", now))
}

func TestExponentialRetry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	newPolicy := func() *backtracking.ExponentialRetry {
		return backtracking.NewExponentialRetry(backtracking.ExponentialRetryConfig{
			InitialInterval:     time.Second,
			MaxInterval:         4 * time.Second,
			Multiplier:          2,
			RandomizationFactor: 0,
		})
	}

	t.Run("unknown contracts are attempted", func(t *testing.T) {
		policy := newPolicy()
		assert.True(t, policy.ShouldAttempt("0xabc", now))
	})

	t.Run("delay grows with failures", func(t *testing.T) {
		policy := newPolicy()

		policy.RecordFailure("0xabc", now)
		assert.False(t, policy.ShouldAttempt("0xabc", now))
		assert.False(t, policy.ShouldAttempt("0xabc", now.Add(999*time.Millisecond)))
		assert.True(t, policy.ShouldAttempt("0xabc", now.Add(time.Second)))

		policy.RecordFailure("0xabc", now)
		assert.False(t, policy.ShouldAttempt("0xabc", now.Add(time.Second)))
		assert.True(t, policy.ShouldAttempt("0xabc", now.Add(2*time.Second)))
	})

	t.Run("delay is capped", func(t *testing.T) {
		policy := newPolicy()
		for i := 0; i < 10; i++ {
			policy.RecordFailure("0xabc", now)
		}

		assert.False(t, policy.ShouldAttempt("0xabc", now.Add(3*time.Second)))
		assert.True(t, policy.ShouldAttempt("0xabc", now.Add(4*time.Second)))
	})

	t.Run("success resets the backoff", func(t *testing.T) {
		policy := newPolicy()
		policy.RecordFailure("0xabc", now)
		policy.RecordFailure("0xabc", now)

		policy.RecordSuccess("0xabc")

		assert.True(t, policy.ShouldAttempt("0xabc", now))
	})

	t.Run("contracts back off independently", func(t *testing.T) {
		policy := newPolicy()
		policy.RecordFailure("0xabc", now)

		assert.False(t, policy.ShouldAttempt("0xabc", now))
		assert.True(t, policy.ShouldAttempt("0xdef", now))
	})
}

func TestExponentialRetry_LogsFailureCount(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	defer logger.Replace(zap.New(core))()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	policy := backtracking.NewExponentialRetry(backtracking.ExponentialRetryConfig{
		InitialInterval: time.Second,
		MaxInterval:     time.Minute,
	})

	policy.RecordFailure("0xabc", now)
	policy.RecordFailure("0xabc", now)
	policy.RecordSuccess("0xabc")
	policy.RecordFailure("0xabc", now)

	entries := logs.FilterMessage("Contract backing off").All()
	require.Len(t, entries, 3)
	assert.Equal(t, int64(1), entries[0].ContextMap()["failures"])
	assert.Equal(t, int64(2), entries[1].ContextMap()["failures"])
	assert.Equal(t, int64(1), entries[2].ContextMap()["failures"])
	assert.Equal(t, "0xabc", entries[2].ContextMap()["contract"])
}
