package proc

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termwatch/internal/infrastructure/resilience"
)

// Foregrounder resolves the process group holding foreground control of a
// terminal device. The boolean result is false when the group cannot be
// determined; that case is never an error.
type Foregrounder interface {
	ForegroundGroup(ctx context.Context, device string) (int, bool)
}

// PSForegrounder asks ps for the tpgid column of the device's processes.
type PSForegrounder struct {
	breaker *resilience.Breaker
	logger  *zap.Logger
}

// NewForegrounder creates a ps-backed foreground resolver.
func NewForegrounder(logger *zap.Logger) *PSForegrounder {
	return &PSForegrounder{
		breaker: resilience.New("ps-foreground", 5, 10*time.Second),
		logger:  logger,
	}
}

// ForegroundGroup returns the foreground process group id for the device.
func (f *PSForegrounder) ForegroundGroup(ctx context.Context, device string) (int, bool) {
	if !f.breaker.Allow() {
		f.logger.Debug("foreground breaker open, skipping ps query",
			zap.String("device", device),
		)
		return 0, false
	}

	out, err := exec.CommandContext(ctx, "ps", "-t", TTYName(device), "-o", "tpgid=").Output()
	if err != nil {
		f.breaker.Failure()
		f.logger.Debug("ps foreground query failed",
			zap.String("device", device),
			zap.Error(err),
		)
		return 0, false
	}
	f.breaker.Success()

	return ParseForegroundGroup(string(out))
}

// ParseForegroundGroup extracts the first parseable positive group id from
// tpgid output. Processes without a controlling terminal report 0 or -1;
// those rows are skipped.
func ParseForegroundGroup(out string) (int, bool) {
	for _, line := range strings.Split(out, "\n") {
		token := strings.TrimSpace(line)
		if token == "" {
			continue
		}
		pgid, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if pgid > 0 {
			return pgid, true
		}
	}
	return 0, false
}
