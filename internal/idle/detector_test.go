package idle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/termwatch/internal/activity"
	"github.com/GriffinCanCode/termwatch/internal/infrastructure/logging"
)

// scriptedResolver replays a fixed CPU sequence, one sample per poll. A
// nil entry (modeled as a negative CPU) means "no active process". The
// last sample repeats forever.
type scriptedResolver struct {
	cpus  []float64
	polls int
}

const noProcess = -1

func (s *scriptedResolver) Resolve(_ context.Context, _ string) *activity.ActiveProcess {
	idx := s.polls
	if idx >= len(s.cpus) {
		idx = len(s.cpus) - 1
	}
	s.polls++

	cpu := s.cpus[idx]
	if cpu < 0 {
		return nil
	}
	return &activity.ActiveProcess{
		PID:     42,
		Name:    "job",
		Metrics: activity.Metrics{TotalCPU: cpu},
	}
}

// testConfig keeps the reference 350/1000 ratio while running fast.
func testConfig() Config {
	return Config{
		Cadence:      350 * time.Microsecond,
		CPUThreshold: 1.0,
		IdleAfter:    time.Millisecond,
	}
}

func TestWaitIdleImmediatelyWhenNoActiveProcess(t *testing.T) {
	resolver := &scriptedResolver{cpus: []float64{noProcess}}
	d := New(resolver, testConfig(), logging.NewNop().Logger)

	outcome := d.Wait(context.Background(), "/dev/pts/1")

	assert.Equal(t, OutcomeIdle, outcome)
	assert.Equal(t, 1, resolver.polls, "idle after a single poll")
}

func TestWaitRequiresSustainedLowCPU(t *testing.T) {
	// 0.5% CPU on every tick: 350+350 = 700 < 1000 after two polls,
	// 1050 >= 1000 on the third.
	resolver := &scriptedResolver{cpus: []float64{0.5}}
	d := New(resolver, testConfig(), logging.NewNop().Logger)

	outcome := d.Wait(context.Background(), "/dev/pts/1")

	assert.Equal(t, OutcomeIdle, outcome)
	assert.Equal(t, 3, resolver.polls, "idle on the 3rd tick, not the 2nd")
}

func TestWaitResetsAccumulatorOnLoad(t *testing.T) {
	// Low, low, busy, low, low, low: the busy sample must reset the
	// accumulator, so idle lands on the 6th tick.
	resolver := &scriptedResolver{cpus: []float64{0.5, 0.5, 5.0, 0.5, 0.5, 0.5}}
	d := New(resolver, testConfig(), logging.NewNop().Logger)

	outcome := d.Wait(context.Background(), "/dev/pts/1")

	assert.Equal(t, OutcomeIdle, outcome)
	assert.Equal(t, 6, resolver.polls)
}

func TestWaitTimedOut(t *testing.T) {
	cfg := testConfig()
	cfg.MaxWait = 2 * time.Millisecond

	// Permanently busy terminal.
	resolver := &scriptedResolver{cpus: []float64{50.0}}
	d := New(resolver, cfg, logging.NewNop().Logger)

	outcome := d.Wait(context.Background(), "/dev/pts/1")

	assert.Equal(t, OutcomeTimedOut, outcome)
	assert.False(t, d.IsIdle(context.Background(), "/dev/pts/1"))
}

func TestWaitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := &scriptedResolver{cpus: []float64{50.0}}
	d := New(resolver, testConfig(), logging.NewNop().Logger)

	outcome := d.Wait(ctx, "/dev/pts/1")

	assert.Equal(t, OutcomeCanceled, outcome)
}

type panickyResolver struct{}

func (panickyResolver) Resolve(context.Context, string) *activity.ActiveProcess {
	panic("resolver defect")
}

func TestWaitFailsOpenOnPanic(t *testing.T) {
	d := New(panickyResolver{}, testConfig(), logging.NewNop().Logger)

	assert.NotPanics(t, func() {
		assert.Equal(t, OutcomeIdle, d.Wait(context.Background(), "/dev/pts/1"))
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 350*time.Millisecond, cfg.Cadence)
	assert.Equal(t, 1.0, cfg.CPUThreshold)
	assert.Equal(t, time.Second, cfg.IdleAfter)
	assert.Equal(t, time.Duration(0), cfg.MaxWait)
}

func TestNewNormalizesZeroConfig(t *testing.T) {
	d := New(&scriptedResolver{cpus: []float64{noProcess}}, Config{}, logging.NewNop().Logger)

	assert.Equal(t, DefaultConfig().Cadence, d.cfg.Cadence)
	assert.Equal(t, DefaultConfig().CPUThreshold, d.cfg.CPUThreshold)
	assert.Equal(t, DefaultConfig().IdleAfter, d.cfg.IdleAfter)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "idle", OutcomeIdle.String())
	assert.Equal(t, "timed_out", OutcomeTimedOut.String())
	assert.Equal(t, "canceled", OutcomeCanceled.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
