package activity

// BreakdownEntry is one contributing process in a metrics rollup.
type BreakdownEntry struct {
	Name     string  `json:"name"`
	PID      int     `json:"pid"`
	CPU      float64 `json:"cpu_percent"`
	MemoryMB float64 `json:"memory_mb"`
}

// Metrics is the resource rollup for a process and its full descendant
// subtree. Breakdown holds only contributors above the reporting floors,
// sorted by CPU descending; totals always cover every contributor.
type Metrics struct {
	TotalCPU      float64          `json:"total_cpu_percent"`
	TotalMemoryMB float64          `json:"total_memory_mb"`
	Breakdown     []BreakdownEntry `json:"breakdown,omitempty"`
}

// ActiveProcess is the resolved answer to "what is running now" on a
// terminal device. Produced once per resolution and never mutated.
type ActiveProcess struct {
	PID          int      `json:"pid"`
	PPID         int      `json:"ppid"`
	PGID         int      `json:"pgid"`
	Name         string   `json:"name"`
	Command      string   `json:"command"`
	State        string   `json:"state"`
	CommandChain []string `json:"command_chain"`
	Environment  string   `json:"environment,omitempty"`
	AppContext   string   `json:"app_context,omitempty"`
	Metrics      Metrics  `json:"metrics"`
}
