package proc

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termwatch/internal/infrastructure/resilience"
)

// snapshotColumns is the ps output format for device snapshots. The command
// column must stay last so everything after the eighth field can be joined
// back into the full command line.
const snapshotColumns = "pid,ppid,pgid,sess,stat,%cpu,rss,time,command"

// snapshotFieldCount is the minimum field count for a parseable row.
const snapshotFieldCount = 9

// Snapshotter queries all processes attached to a terminal device.
type Snapshotter interface {
	Snapshot(ctx context.Context, device string) ([]Record, error)
}

// PSSnapshotter shells out to ps, restricted to one tty. Failures are
// non-fatal: a missing device or failed query yields an empty snapshot.
type PSSnapshotter struct {
	breaker *resilience.Breaker
	logger  *zap.Logger
}

// NewSnapshotter creates a ps-backed snapshotter.
func NewSnapshotter(logger *zap.Logger) *PSSnapshotter {
	return &PSSnapshotter{
		breaker: resilience.New("ps-snapshot", 5, 10*time.Second),
		logger:  logger,
	}
}

// Snapshot returns every process attached to the device. The error return
// exists for stub implementations; this implementation always degrades to
// an empty slice instead.
func (s *PSSnapshotter) Snapshot(ctx context.Context, device string) ([]Record, error) {
	if _, err := os.Stat(device); err != nil {
		s.logger.Debug("terminal device not accessible",
			zap.String("device", device),
			zap.Error(err),
		)
		return nil, nil
	}

	if !s.breaker.Allow() {
		s.logger.Debug("snapshot breaker open, skipping ps query",
			zap.String("device", device),
		)
		return nil, nil
	}

	out, err := exec.CommandContext(ctx, "ps", "-t", TTYName(device), "-o", snapshotColumns).Output()
	if err != nil {
		s.breaker.Failure()
		s.logger.Debug("ps snapshot query failed",
			zap.String("device", device),
			zap.Error(err),
		)
		return nil, nil
	}
	s.breaker.Success()

	return ParseTable(string(out)), nil
}

// ParseTable parses columnar ps output into records. The header line and
// any row with fewer than the expected number of fields are skipped.
func ParseTable(out string) []Record {
	lines := strings.Split(out, "\n")
	if len(lines) > 0 && isHeader(lines[0]) {
		lines = lines[1:]
	}

	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < snapshotFieldCount {
			continue
		}

		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		ppid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		pgid, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		sid, err := strconv.Atoi(fields[3])
		if err != nil {
			continue
		}

		cpu, _ := strconv.ParseFloat(fields[5], 64)
		rss, _ := strconv.ParseInt(fields[6], 10, 64)

		records = append(records, Record{
			PID:     pid,
			PPID:    ppid,
			PGID:    pgid,
			SID:     sid,
			State:   fields[4][:1],
			CPU:     cpu,
			RSS:     rss,
			Time:    fields[7],
			Command: strings.Join(fields[8:], " "),
		})
	}
	return records
}

// isHeader reports whether a ps output line is the column header.
func isHeader(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	return strings.EqualFold(fields[0], "PID")
}

// TTYName converts a device path into the short tty name ps expects,
// e.g. /dev/pts/3 -> pts/3, /dev/ttys004 -> ttys004.
func TTYName(device string) string {
	return strings.TrimPrefix(device, "/dev/")
}
