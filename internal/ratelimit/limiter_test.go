package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := New(10, time.Second)

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow())
	}
	assert.False(t, l.Allow())
}

func TestLimiter_Wait(t *testing.T) {
	l := New(100, time.Second)

	err := l.Wait(context.Background())
	require.NoError(t, err)
}

func TestLimiter_WaitCancelled(t *testing.T) {
	l := New(1, time.Hour)
	require.True(t, l.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
}

func TestLimiter_Snapshot(t *testing.T) {
	l := New(2, time.Second)

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	snap := l.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(2), snap.AllowedRequests)
	assert.Equal(t, int64(1), snap.DeniedRequests)
}

func TestLimiter_SetLimit(t *testing.T) {
	l := New(1, time.Second)
	require.True(t, l.Allow())
	require.False(t, l.Allow())

	l.SetLimit(100, time.Second)
	assert.True(t, l.Allow())
}
