package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_BurstThenRefill(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	l := New(1, 3, 10*time.Minute, WithClock(clock))

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4"), "request %d within burst", i)
	}
	assert.False(t, l.Allow("1.2.3.4"), "burst exhausted")

	// One token refills per second.
	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New(1, 1, 10*time.Minute)

	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"), "a second caller gets its own bucket")
}

func TestLimiter_EvictsIdleKeys(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	l := New(1, 1, time.Minute, WithClock(clock))

	l.Allow("1.2.3.4")
	l.Allow("5.6.7.8")
	assert.Equal(t, 2, l.Len())

	// Only the first key stays warm past the ttl.
	now = now.Add(30 * time.Second)
	l.Allow("1.2.3.4")

	now = now.Add(45 * time.Second)
	l.Allow("9.9.9.9")

	assert.Equal(t, 2, l.Len(), "idle key evicted, warm key and new key remain")
}
