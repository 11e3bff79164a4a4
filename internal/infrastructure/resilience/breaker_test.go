package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerStartsClosed(t *testing.T) {
	b := New("test", 3, time.Minute)

	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := New("test", 3, time.Minute)

	b.Failure()
	b.Failure()
	assert.True(t, b.Allow(), "below threshold, should still allow")

	b.Failure()
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b := New("test", 3, time.Minute)

	b.Failure()
	b.Failure()
	b.Success()
	b.Failure()
	b.Failure()

	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerProbesAfterCooldown(t *testing.T) {
	b := New("test", 2, 10*time.Millisecond)

	b.Failure()
	b.Failure()
	assert.False(t, b.Allow())

	time.Sleep(15 * time.Millisecond)

	// One probe gets through after the cooldown.
	assert.True(t, b.Allow())

	// A failed probe reopens immediately.
	b.Failure()
	assert.False(t, b.Allow())

	time.Sleep(15 * time.Millisecond)
	assert.True(t, b.Allow())

	// A successful probe closes the breaker for good.
	b.Success()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerDefaults(t *testing.T) {
	b := New("test", 0, 0)

	assert.Equal(t, "test", b.Name())
	for i := 0; i < 4; i++ {
		b.Failure()
	}
	assert.Equal(t, StateClosed, b.State())
	b.Failure()
	assert.Equal(t, StateOpen, b.State())
}
