package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustion(t *testing.T) {
	bucket := NewTokenBucket(3, 1, time.Hour)

	for i := 0; i < 3; i++ {
		allowed, _ := bucket.Allow()
		assert.True(t, allowed, "token %d should be granted", i)
	}

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestTokenBucketRefill(t *testing.T) {
	bucket := NewTokenBucket(1, 1, 10*time.Millisecond)

	allowed, _ := bucket.Allow()
	assert.True(t, allowed)
	allowed, _ = bucket.Allow()
	assert.False(t, allowed)

	time.Sleep(20 * time.Millisecond)

	allowed, _ = bucket.Allow()
	assert.True(t, allowed)
}

func TestRateLimiterIsolatesUsersAndActions(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 20; i++ {
		allowed, _ := rl.Allow("alice", "send_message")
		assert.True(t, allowed)
	}
	allowed, _ := rl.Allow("alice", "send_message")
	assert.False(t, allowed)

	// Other users and other actions keep their own budgets.
	allowed, _ = rl.Allow("bob", "send_message")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("alice", "join_chat")
	assert.True(t, allowed)
}

func TestSetLimitOverridesDefaults(t *testing.T) {
	rl := NewRateLimiter()
	rl.SetLimit("send_message", 2, 1, time.Hour)

	allowed, _ := rl.Allow("alice", "send_message")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("alice", "send_message")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("alice", "send_message")
	assert.False(t, allowed)
}

func TestCleanupEvictsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter()
	rl.Allow("alice", "send_message")

	rl.buckets["alice:send_message"].lastRefill = time.Now().Add(-2 * time.Hour)
	rl.Cleanup()

	rl.mutex.RLock()
	defer rl.mutex.RUnlock()
	assert.Empty(t, rl.buckets)
}
