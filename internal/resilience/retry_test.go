package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Policy {
	return Policy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestDoValRetriesTransient(t *testing.T) {
	t.Parallel()

	calls := 0
	got, err := DoVal(t.Context(), fastPolicy(), "test", func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, MarkTransient(eris.New("upstream 503"), 503)
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestDoValStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	permanent := eris.New("bad request")
	calls := 0
	_, err := DoVal(t.Context(), fastPolicy(), "test", func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	require.Error(t, err)
	assert.True(t, eris.Is(err, permanent))
	assert.Equal(t, 1, calls)
}

func TestDoValExhaustsAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := DoVal(t.Context(), fastPolicy(), "test", func(context.Context) (int, error) {
		calls++
		return 0, MarkTransient(eris.New("still failing"), 502)
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoValHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	calls := 0
	_, err := DoVal(ctx, fastPolicy(), "test", func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, MarkTransient(eris.New("transient"), 0)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoWrapsFuncWithoutValue(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(t.Context(), fastPolicy(), "test", func(context.Context) error {
		calls++
		if calls == 1 {
			return MarkTransient(eris.New("once"), 0)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDelayBackoffCapped(t *testing.T) {
	t.Parallel()

	p := Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, Multiplier: 2}.withDefaults()
	p.Jitter = 0
	assert.Equal(t, 100*time.Millisecond, p.delay(0))
	assert.Equal(t, 200*time.Millisecond, p.delay(1))
	assert.Equal(t, 300*time.Millisecond, p.delay(2))
	assert.Equal(t, 300*time.Millisecond, p.delay(8))
}
