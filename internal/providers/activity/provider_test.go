package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termwatch/internal/activity"
	"github.com/GriffinCanCode/termwatch/internal/idle"
	"github.com/GriffinCanCode/termwatch/internal/proc"
)

type stubSnapshotter struct {
	records []proc.Record
}

func (s *stubSnapshotter) Snapshot(_ context.Context, _ string) ([]proc.Record, error) {
	return s.records, nil
}

type stubForegrounder struct {
	pgid int
	ok   bool
}

func (s *stubForegrounder) ForegroundGroup(_ context.Context, _ string) (int, bool) {
	return s.pgid, s.ok
}

func newTestProvider(records []proc.Record, pgid int) *Provider {
	logger := zap.NewNop()
	snapshots := &stubSnapshotter{records: records}
	resolver := activity.NewResolver(snapshots, &stubForegrounder{pgid: pgid, ok: pgid > 0}, logger)
	detector := idle.New(resolver, idle.Config{
		Cadence:      time.Microsecond * 350,
		CPUThreshold: 1.0,
		IdleAfter:    time.Millisecond,
	}, logger)
	return NewProvider(resolver, detector, snapshots, logger)
}

func TestDefinition(t *testing.T) {
	provider := newTestProvider(nil, 0)
	def := provider.Definition()

	assert.Equal(t, "activity", def.ID)
	assert.Len(t, def.Tools, 3)
}

func TestActiveResolvesForeground(t *testing.T) {
	records := []proc.Record{
		{PID: 100, PPID: 1, PGID: 100, State: "S", CPU: 0.0, Command: "/bin/bash"},
		{PID: 200, PPID: 100, PGID: 200, State: "S", CPU: 5.2, Command: "python3 train.py"},
	}
	provider := newTestProvider(records, 200)

	result, err := provider.Execute(context.Background(), "activity.active", map[string]interface{}{
		"device": "/dev/ttys001",
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)

	active, ok := result.Data["active"].(*activity.ActiveProcess)
	require.True(t, ok)
	assert.Equal(t, 200, active.PID)
	assert.Equal(t, "python3", active.Name)
}

func TestActiveNoProcesses(t *testing.T) {
	provider := newTestProvider(nil, 0)

	result, err := provider.Execute(context.Background(), "activity.active", map[string]interface{}{
		"device": "/dev/ttys001",
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.Data["active"])
}

func TestActiveRequiresDevice(t *testing.T) {
	provider := newTestProvider(nil, 0)

	_, err := provider.Execute(context.Background(), "activity.active", map[string]interface{}{}, nil)
	assert.Error(t, err)
}

func TestWaitIdleEmptyTerminal(t *testing.T) {
	provider := newTestProvider(nil, 0)

	result, err := provider.Execute(context.Background(), "activity.wait_idle", map[string]interface{}{
		"device": "/dev/ttys001",
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "idle", result.Data["outcome"])
}

func TestSnapshot(t *testing.T) {
	records := []proc.Record{
		{PID: 100, PPID: 1, PGID: 100, State: "S", Command: "/bin/zsh"},
	}
	provider := newTestProvider(records, 100)

	result, err := provider.Execute(context.Background(), "activity.snapshot", map[string]interface{}{
		"device": "/dev/ttys001",
	}, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Data["count"])
}

func TestUnknownTool(t *testing.T) {
	provider := newTestProvider(nil, 0)

	_, err := provider.Execute(context.Background(), "activity.bogus", nil, nil)
	assert.Error(t, err)
}
