package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termwatch/internal/proc"
)

type stubSnapshotter struct {
	records []proc.Record
	err     error
	panics  bool
}

func (s *stubSnapshotter) Snapshot(_ context.Context, _ string) ([]proc.Record, error) {
	if s.panics {
		panic("snapshot defect")
	}
	return s.records, s.err
}

type stubForegrounder struct {
	pgid int
	ok   bool
}

func (f *stubForegrounder) ForegroundGroup(_ context.Context, _ string) (int, bool) {
	return f.pgid, f.ok
}

func newTestResolver(records []proc.Record, pgid int, fgOK bool) *Resolver {
	return NewResolver(
		&stubSnapshotter{records: records},
		&stubForegrounder{pgid: pgid, ok: fgOK},
		zap.NewNop(),
	)
}

func shellAndJob() []proc.Record {
	return []proc.Record{
		{PID: 100, PPID: 1, PGID: 100, SID: 100, State: "S", CPU: 0, RSS: 3072, Command: "zsh"},
		{PID: 200, PPID: 100, PGID: 200, SID: 100, State: "R", CPU: 15, RSS: 40960, Command: "/usr/bin/python train.py"},
		{PID: 300, PPID: 200, PGID: 200, SID: 100, State: "S", CPU: 2, RSS: 10240, Command: "worker"},
	}
}

func TestResolveActiveProcess(t *testing.T) {
	r := newTestResolver(shellAndJob(), 200, true)

	active := r.Resolve(context.Background(), "/dev/pts/1")
	require.NotNil(t, active)

	assert.Equal(t, 200, active.PID)
	assert.Equal(t, "python", active.Name)
	assert.Equal(t, "R", active.State)
	assert.Equal(t, []string{"zsh", "python"}, active.CommandChain)
	assert.Equal(t, "Python REPL", active.Environment)

	// Metrics cover the winner plus its descendant.
	assert.InDelta(t, 17.0, active.Metrics.TotalCPU, 1e-9)
	assert.InDelta(t, 50.0, active.Metrics.TotalMemoryMB, 1e-9)
}

func TestResolveScoresWithinForegroundGroup(t *testing.T) {
	// Shell and job share the foreground group; the job must win.
	records := shellAndJob()
	records[0].PGID = 200

	r := newTestResolver(records, 200, true)
	active := r.Resolve(context.Background(), "/dev/pts/1")
	require.NotNil(t, active)
	assert.Equal(t, 200, active.PID)
}

func TestResolveNoProcesses(t *testing.T) {
	r := newTestResolver(nil, 200, true)
	assert.Nil(t, r.Resolve(context.Background(), "/dev/pts/1"))
}

func TestResolveSnapshotError(t *testing.T) {
	r := NewResolver(
		&stubSnapshotter{err: errors.New("ps: command not found")},
		&stubForegrounder{pgid: 200, ok: true},
		zap.NewNop(),
	)
	assert.Nil(t, r.Resolve(context.Background(), "/dev/pts/1"))
}

func TestResolveNoForegroundGroup(t *testing.T) {
	r := newTestResolver(shellAndJob(), 0, false)
	assert.Nil(t, r.Resolve(context.Background(), "/dev/pts/1"))
}

func TestResolveForegroundGroupNotInSnapshot(t *testing.T) {
	r := newTestResolver(shellAndJob(), 999, true)
	assert.Nil(t, r.Resolve(context.Background(), "/dev/pts/1"))
}

func TestResolveRecoversFromPanic(t *testing.T) {
	r := NewResolver(
		&stubSnapshotter{panics: true},
		&stubForegrounder{pgid: 200, ok: true},
		zap.NewNop(),
	)
	assert.NotPanics(t, func() {
		assert.Nil(t, r.Resolve(context.Background(), "/dev/pts/1"))
	})
}
