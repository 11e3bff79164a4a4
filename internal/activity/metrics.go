package activity

import (
	"sort"

	"github.com/GriffinCanCode/termwatch/internal/proc"
)

// Reporting floors for the metrics breakdown: contributors below both are
// summed into the totals but omitted from the per-process list.
const (
	breakdownCPUFloor    = 0.1 // percent
	breakdownMemoryFloor = 5.0 // megabytes
)

// kbPerMB converts ps rss kilobytes into megabytes.
const kbPerMB = 1024.0

// Aggregate sums CPU and memory across a process and its full descendant
// subtree and builds the filtered, CPU-sorted breakdown. The descendant
// walk is cycle-safe via the tree's visited tracking.
func Aggregate(r proc.Record, tree *proc.Tree) Metrics {
	contributors := make([]proc.Record, 0, 1+tree.Len())
	contributors = append(contributors, r)
	contributors = append(contributors, tree.Descendants(r.PID)...)

	var m Metrics
	for _, c := range contributors {
		memoryMB := float64(c.RSS) / kbPerMB
		m.TotalCPU += c.CPU
		m.TotalMemoryMB += memoryMB

		if c.CPU > breakdownCPUFloor || memoryMB > breakdownMemoryFloor {
			m.Breakdown = append(m.Breakdown, BreakdownEntry{
				Name:     c.Name(),
				PID:      c.PID,
				CPU:      c.CPU,
				MemoryMB: memoryMB,
			})
		}
	}

	sort.SliceStable(m.Breakdown, func(i, j int) bool {
		return m.Breakdown[i].CPU > m.Breakdown[j].CPU
	})

	return m
}
