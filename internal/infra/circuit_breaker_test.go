package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errGateway = errors.New("gateway down")

func failN(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(func() error { return errGateway })
	}
}

func TestCircuitBreakerAbreAposFalhasConsecutivas(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Minute})

	failN(cb, 2)
	assert.Equal(t, CBClosed, cb.State())

	failN(cb, 1)
	assert.Equal(t, CBOpen, cb.State())

	// Fast-fail without calling fn
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreakerSucessoZeraContagem(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Minute})

	failN(cb, 2)
	require.NoError(t, cb.Execute(func() error { return nil }))
	failN(cb, 2)

	// 2 falhas + sucesso + 2 falhas: nunca chegou a 3 consecutivas
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerHalfOpenRecupera(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Millisecond})

	failN(cb, 1)
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	// Two successful probes close the circuit
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFalhaReabre(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Millisecond})

	failN(cb, 1)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	failN(cb, 1)
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreakerStateString(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
}
