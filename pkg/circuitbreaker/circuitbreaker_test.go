package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("downstream unavailable")

func newTestBreaker(onChange func(name string, from, to State)) *CircuitBreaker {
	return NewCircuitBreaker("test", Config{
		MaxRequests:      1,
		Timeout:          100 * time.Millisecond,
		FailureThreshold: 3,
		OnStateChange:    onChange,
	})
}

func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := newTestBreaker(nil)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(func() error { return nil }))
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, "test", cb.Name())

	// 未达到阈值前失败不会熔断
	assert.ErrorIs(t, cb.Execute(func() error { return errDownstream }), errDownstream)
	assert.ErrorIs(t, cb.Execute(func() error { return errDownstream }), errDownstream)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := newTestBreaker(nil)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errDownstream })
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.True(t, IsRejected(err))
	assert.False(t, called, "熔断器打开时不应调用下游")
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb := newTestBreaker(nil)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errDownstream })
	}

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenToOpen(t *testing.T) {
	cb := newTestBreaker(nil)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errDownstream })
	}

	time.Sleep(150 * time.Millisecond)
	_ = cb.Execute(func() error { return errDownstream })
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var (
		mu          sync.Mutex
		transitions []string
	)
	cb := newTestBreaker(func(name string, from, to State) {
		mu.Lock()
		defer mu.Unlock()
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errDownstream })
	}
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, cb.Execute(func() error { return nil }))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestIsRejected(t *testing.T) {
	assert.False(t, IsRejected(errDownstream))
	assert.False(t, IsRejected(nil))
}
