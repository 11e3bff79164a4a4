package idle

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termwatch/internal/activity"
)

// Resolver is the query the detector polls. A nil result means no active
// process could be determined on the device.
type Resolver interface {
	Resolve(ctx context.Context, device string) *activity.ActiveProcess
}

// Outcome is the terminal result of a Wait call.
type Outcome int

const (
	// OutcomeIdle means the terminal settled below the CPU threshold for
	// the required duration, or had no active process at all.
	OutcomeIdle Outcome = iota
	// OutcomeTimedOut means the wait cap or context deadline expired
	// before the terminal went idle.
	OutcomeTimedOut
	// OutcomeCanceled means the caller canceled the wait.
	OutcomeCanceled
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Config holds the idle detection constants. They are empirically tuned,
// not sacred: any of them may be overridden.
type Config struct {
	// Cadence is the poll interval.
	Cadence time.Duration
	// CPUThreshold is the total CPU percentage below which an
	// observation counts toward idleness.
	CPUThreshold float64
	// IdleAfter is how long observations must stay below the threshold
	// before the terminal is declared idle.
	IdleAfter time.Duration
	// MaxWait caps the total wait; zero means no cap beyond the
	// caller's context.
	MaxWait time.Duration
}

// DefaultConfig returns the calibrated detection constants.
func DefaultConfig() Config {
	return Config{
		Cadence:      350 * time.Millisecond,
		CPUThreshold: 1.0,
		IdleAfter:    time.Second,
	}
}

// Detector runs the polling loop for one or more terminal devices. The
// detector itself holds no per-device state; all loop state lives inside
// each Wait call.
type Detector struct {
	resolver Resolver
	cfg      Config
	logger   *zap.Logger
}

// New creates a detector. Zero config fields fall back to defaults.
func New(resolver Resolver, cfg Config, logger *zap.Logger) *Detector {
	def := DefaultConfig()
	if cfg.Cadence <= 0 {
		cfg.Cadence = def.Cadence
	}
	if cfg.CPUThreshold <= 0 {
		cfg.CPUThreshold = def.CPUThreshold
	}
	if cfg.IdleAfter <= 0 {
		cfg.IdleAfter = def.IdleAfter
	}
	return &Detector{
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
	}
}

// Wait blocks until the terminal device goes idle, the wait cap expires,
// or the context is done. It yields between observations rather than
// busy-waiting, and it never panics: an unexpected defect while polling
// resolves to idle so the caller cannot hang on a broken device.
func (d *Detector) Wait(ctx context.Context, device string) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("idle poll panicked, failing open",
				zap.String("device", device),
				zap.Any("panic", rec),
			)
			outcome = OutcomeIdle
		}
	}()

	if d.cfg.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.MaxWait)
		defer cancel()
	}

	// belowThreshold is owned exclusively by this call.
	var belowThreshold time.Duration

	for {
		active := d.resolver.Resolve(ctx, device)
		if active == nil {
			// Nothing is running; sustained load cannot be assumed.
			return OutcomeIdle
		}

		if active.Metrics.TotalCPU < d.cfg.CPUThreshold {
			belowThreshold += d.cfg.Cadence
			if belowThreshold >= d.cfg.IdleAfter {
				d.logger.Debug("terminal settled",
					zap.String("device", device),
					zap.Duration("below_threshold", belowThreshold),
				)
				return OutcomeIdle
			}
		} else {
			belowThreshold = 0
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return OutcomeTimedOut
			}
			return OutcomeCanceled
		case <-time.After(d.cfg.Cadence):
		}
	}
}

// IsIdle reports whether the device reached idleness before the wait cap
// or context expired.
func (d *Detector) IsIdle(ctx context.Context, device string) bool {
	return d.Wait(ctx, device) == OutcomeIdle
}
