package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiter(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	l := newLoginLimiter(3, 15*time.Minute)
	l.now = func() time.Time { return now }
	ip := "192.168.1.1"

	assert.True(t, l.Allow(ip))
	l.RecordFailure(ip)
	l.RecordFailure(ip)
	assert.True(t, l.Allow(ip), "below threshold")

	l.RecordFailure(ip)
	assert.False(t, l.Allow(ip), "blocked after max attempts")
	assert.True(t, l.Allow("10.0.0.1"), "other clients unaffected")

	now = now.Add(16 * time.Minute)
	assert.True(t, l.Allow(ip), "block expires")
	l.RecordFailure(ip)
	assert.True(t, l.Allow(ip), "counter restarted")
}

func TestLoginLimiterResetAndWindow(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	l := newLoginLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ip := "192.168.1.2"

	l.RecordFailure(ip)
	l.Reset(ip)
	l.RecordFailure(ip)
	assert.True(t, l.Allow(ip))

	now = now.Add(2 * time.Minute)
	l.RecordFailure(ip)
	assert.True(t, l.Allow(ip), "failures outside the window do not add up")
}

func TestLoginLimiterPruneKeepsLiveCounters(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	l := newLoginLimiter(3, time.Minute)
	l.maxTracked = 4
	l.now = func() time.Time { return now }

	target := "192.168.1.3"
	l.RecordFailure(target)
	l.RecordFailure(target)

	now = now.Add(30 * time.Second)
	for i := 0; i < 10; i++ {
		l.RecordFailure(fmt.Sprintf("10.0.0.%d", i))
	}
	assert.Contains(t, l.attempts, target, "live counter survives a full table")

	l.RecordFailure(target)
	assert.False(t, l.Allow(target))

	now = now.Add(2 * time.Minute)
	l.RecordFailure("10.0.1.1")
	assert.NotContains(t, l.attempts, "10.0.0.0", "stale counters are pruned")
	assert.LessOrEqual(t, len(l.attempts), 2)
}
