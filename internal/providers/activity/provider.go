package activity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termwatch/internal/activity"
	"github.com/GriffinCanCode/termwatch/internal/idle"
	"github.com/GriffinCanCode/termwatch/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termwatch/internal/proc"
	"github.com/GriffinCanCode/termwatch/internal/shared/types"
)

// Provider implements activity inspection operations
type Provider struct {
	resolver  *activity.Resolver
	detector  *idle.Detector
	snapshots proc.Snapshotter
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// NewProvider creates a new activity provider
func NewProvider(resolver *activity.Resolver, detector *idle.Detector, snapshots proc.Snapshotter, logger *zap.Logger) *Provider {
	return &Provider{
		resolver:  resolver,
		detector:  detector,
		snapshots: snapshots,
		logger:    logger,
	}
}

// WithMetrics attaches a metrics sink
func (p *Provider) WithMetrics(metrics *monitoring.Metrics) *Provider {
	p.metrics = metrics
	return p
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "activity",
		Name:        "Activity Service",
		Description: "Foreground process resolution, environment classification, and idle detection for terminal devices",
		Category:    types.CategoryMonitoring,
		Capabilities: []string{
			"foreground",
			"process_tree",
			"classification",
			"metrics",
			"idle_detection",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "activity.active":
		return p.active(ctx, params)
	case "activity.wait_idle":
		return p.waitIdle(ctx, params)
	case "activity.snapshot":
		return p.snapshot(ctx, params)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "activity.active",
			Name:        "Resolve Active Process",
			Description: "Find the most interesting foreground process on a terminal device",
			Parameters: []types.Parameter{
				{
					Name:        "device",
					Type:        "string",
					Description: "Terminal device path (e.g., /dev/ttys001)",
					Required:    true,
				},
			},
			Returns: "active_process",
		},
		{
			ID:          "activity.wait_idle",
			Name:        "Wait for Idle",
			Description: "Block until the device's foreground activity drops below the CPU threshold",
			Parameters: []types.Parameter{
				{
					Name:        "device",
					Type:        "string",
					Description: "Terminal device path",
					Required:    true,
				},
				{
					Name:        "timeout_ms",
					Type:        "number",
					Description: "Maximum time to wait before giving up",
					Required:    false,
				},
			},
			Returns: "idle_outcome",
		},
		{
			ID:          "activity.snapshot",
			Name:        "Process Snapshot",
			Description: "Raw process table for every process attached to a terminal device",
			Parameters: []types.Parameter{
				{
					Name:        "device",
					Type:        "string",
					Description: "Terminal device path",
					Required:    true,
				},
			},
			Returns: "process_list",
		},
	}
}

func (p *Provider) active(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	device, ok := params["device"].(string)
	if !ok {
		return nil, fmt.Errorf("device is required")
	}

	start := time.Now()
	active := p.resolver.Resolve(ctx, device)
	if p.metrics != nil {
		p.metrics.RecordResolution(active != nil, time.Since(start))
	}

	if active == nil {
		return &types.Result{
			Success: true,
			Data:    map[string]interface{}{"active": nil},
		}, nil
	}

	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"active": active},
	}, nil
}

func (p *Provider) waitIdle(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	device, ok := params["device"].(string)
	if !ok {
		return nil, fmt.Errorf("device is required")
	}

	if t, ok := params["timeout_ms"].(float64); ok && t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(t)*time.Millisecond)
		defer cancel()
	}

	start := time.Now()
	outcome := p.detector.Wait(ctx, device)
	waited := time.Since(start)
	if p.metrics != nil {
		p.metrics.RecordIdleWait(outcome.String(), waited)
	}

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"outcome":   outcome.String(),
			"waited_ms": waited.Milliseconds(),
		},
	}, nil
}

func (p *Provider) snapshot(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	device, ok := params["device"].(string)
	if !ok {
		return nil, fmt.Errorf("device is required")
	}

	records, err := p.snapshots.Snapshot(ctx, device)
	if err != nil {
		return nil, err
	}

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"processes": records,
			"count":     len(records),
		},
	}, nil
}
