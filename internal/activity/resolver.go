package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termwatch/internal/proc"
)

// Resolver orchestrates the snapshot, foreground, scoring, classification
// and aggregation steps for one terminal device. It never returns an
// error: every anticipated failure and any unexpected internal one is
// converted to a nil ActiveProcess.
type Resolver struct {
	snapshots  proc.Snapshotter
	foreground proc.Foregrounder
	weights    Weights
	maxChain   int
	logger     *zap.Logger
}

// NewResolver creates a resolver over the given OS query implementations.
func NewResolver(snapshots proc.Snapshotter, foreground proc.Foregrounder, logger *zap.Logger) *Resolver {
	return &Resolver{
		snapshots:  snapshots,
		foreground: foreground,
		weights:    DefaultWeights(),
		maxChain:   proc.MaxAncestorHops,
		logger:     logger,
	}
}

// WithWeights overrides the scoring weights.
func (r *Resolver) WithWeights(w Weights) *Resolver {
	r.weights = w
	return r
}

// Resolve returns the active process on a terminal device, or nil when
// none can be determined. The snapshot and foreground queries touch
// disjoint inputs and run concurrently; both complete before scoring.
func (r *Resolver) Resolve(ctx context.Context, device string) (active *ActiveProcess) {
	// A programming defect below must not escape this boundary; the
	// caller only ever sees "active process" or "nothing".
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("active-process resolution panicked",
				zap.String("device", device),
				zap.Any("panic", rec),
			)
			active = nil
		}
	}()

	type fgResult struct {
		pgid int
		ok   bool
	}
	fgCh := make(chan fgResult, 1)
	go func() {
		pgid, ok := r.foreground.ForegroundGroup(ctx, device)
		fgCh <- fgResult{pgid, ok}
	}()

	records, err := r.snapshots.Snapshot(ctx, device)
	fg := <-fgCh

	if err != nil || len(records) == 0 {
		r.logger.Debug("no processes on device", zap.String("device", device))
		return nil
	}
	if !fg.ok {
		r.logger.Debug("foreground group unresolved", zap.String("device", device))
		return nil
	}

	candidates := make([]proc.Record, 0, len(records))
	for _, rec := range records {
		if rec.PGID == fg.pgid {
			candidates = append(candidates, rec)
		}
	}
	winner, ok := SelectCandidate(candidates, r.weights)
	if !ok {
		r.logger.Debug("foreground group has no members",
			zap.String("device", device),
			zap.Int("pgid", fg.pgid),
		)
		return nil
	}

	tree := proc.NewTree(records)

	chain := tree.AncestorChain(winner.PID, r.maxChain)
	names := make([]string, 0, len(chain))
	for _, ancestor := range chain {
		names = append(names, ancestor.Name())
	}

	active = &ActiveProcess{
		PID:          winner.PID,
		PPID:         winner.PPID,
		PGID:         winner.PGID,
		Name:         winner.Name(),
		Command:      winner.Command,
		State:        winner.State,
		CommandChain: names,
		Metrics:      Aggregate(winner, tree),
	}

	if c, ok := Classify(winner, records); ok {
		active.Environment = c.Environment
		active.AppContext = c.AppContext
	}

	return active
}
