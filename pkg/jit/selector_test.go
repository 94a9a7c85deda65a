package jit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sidejit/jitd/pkg/enabler"
)

func TestEnableSuccess(t *testing.T) {
	sel := NewSelector(&enabler.Simulator{}, []byte("attempt-secret"), time.Second)

	outcome := sel.Enable(context.Background(), "DEVICE-A", "com.app.test", "17.0", nil)

	assert.True(t, outcome.Success)
	assert.Equal(t, MethodMemoryPermissionToggle, outcome.Method)
	assert.NotEmpty(t, outcome.Token)
	assert.NotEmpty(t, outcome.Instructions)
	assert.Empty(t, outcome.Error)
}

func TestEnableConvertsFailureIntoOutcome(t *testing.T) {
	sim := &enabler.Simulator{Err: errors.New("device unreachable")}
	sel := NewSelector(sim, []byte("attempt-secret"), time.Second)

	outcome := sel.Enable(context.Background(), "DEVICE-A", "com.app.test", "16.1", nil)

	assert.False(t, outcome.Success)
	assert.Equal(t, MethodCsDebuggedFlag, outcome.Method)
	assert.Equal(t, "device unreachable", outcome.Error)
}

func TestEnableTimesOut(t *testing.T) {
	sim := &enabler.Simulator{Latency: time.Second}
	sel := NewSelector(sim, []byte("attempt-secret"), 10*time.Millisecond)

	outcome := sel.Enable(context.Background(), "DEVICE-A", "com.app.test", "17.0", nil)

	assert.False(t, outcome.Success)
	assert.Equal(t, "timeout", outcome.Error)
}

func TestAttemptTokenIsBoundToInput(t *testing.T) {
	sel := NewSelector(&enabler.Simulator{}, []byte("attempt-secret"), time.Second)

	a := sel.attemptToken("DEVICE-A", "com.app.one")
	b := sel.attemptToken("DEVICE-A", "com.app.two")

	assert.NotEqual(t, a, b)
}
