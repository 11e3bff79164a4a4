package proc

import (
	"path"
	"strings"
)

// Record is one process observed on a terminal device. Records are built
// fresh on every snapshot and never mutated afterwards.
type Record struct {
	PID     int     `json:"pid"`
	PPID    int     `json:"ppid"`
	PGID    int     `json:"pgid"`
	SID     int     `json:"sid"`
	State   string  `json:"state"`   // single-character run state code (R, S, ...)
	CPU     float64 `json:"cpu"`     // instantaneous %cpu sample
	RSS     int64   `json:"rss_kb"`  // resident memory in kilobytes
	Time    string  `json:"time"`    // accumulated cpu time as reported by ps
	Command string  `json:"command"` // executable plus arguments
}

// Name returns the short process name: the path basename of the first
// whitespace-delimited command token.
func (r Record) Name() string {
	fields := strings.Fields(r.Command)
	if len(fields) == 0 {
		return ""
	}
	return path.Base(fields[0])
}

// Running reports whether the record's run state is "running".
func (r Record) Running() bool { return r.State == "R" }

// Sleeping reports whether the record's run state is "sleeping".
func (r Record) Sleeping() bool { return r.State == "S" }
