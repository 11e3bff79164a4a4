package activity

import (
	"github.com/GriffinCanCode/termwatch/internal/proc"
)

// interactiveShells are deprioritized in favor of whatever they are
// running: a foreground group usually contains the parent shell next to
// the actual job.
var interactiveShells = map[string]bool{
	"bash": true,
	"zsh":  true,
	"sh":   true,
	"fish": true,
	"csh":  true,
	"tcsh": true,
}

// knownREPLs are interactive language shells that are almost always the
// process the user cares about.
var knownREPLs = map[string]bool{
	"irb":     true,
	"pry":     true,
	"rails":   true,
	"node":    true,
	"python":  true,
	"ipython": true,
	"scala":   true,
	"ghci":    true,
	"iex":     true,
	"lein":    true,
	"clj":     true,
	"julia":   true,
	"R":       true,
	"php":     true,
	"lua":     true,
}

// packageManagers get a boost only while they are actually doing work.
var packageManagers = map[string]bool{
	"brew": true,
	"npm":  true,
	"yarn": true,
}

// Weights parameterizes the interest score. The defaults are empirically
// chosen; they are exposed as data rather than hard-coded so deployments
// can retune without code changes.
type Weights struct {
	Running             float64
	Sleeping            float64
	CPUDivisor          float64
	CPUCap              float64
	ShellPenalty        float64
	REPLBonus           float64
	PackageManagerBonus float64
}

// DefaultWeights returns the calibrated scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Running:             2,
		Sleeping:            1,
		CPUDivisor:          10,
		CPUCap:              5,
		ShellPenalty:        1,
		REPLBonus:           3,
		PackageManagerBonus: 2,
	}
}

// Score computes the interest score for one candidate. All terms are
// additive: run state, capped CPU contribution, shell penalty, REPL and
// busy-package-manager bonuses.
func Score(r proc.Record, w Weights) float64 {
	var score float64

	switch {
	case r.Running():
		score += w.Running
	case r.Sleeping():
		score += w.Sleeping
	}

	cpu := r.CPU / w.CPUDivisor
	if cpu > w.CPUCap {
		cpu = w.CPUCap
	}
	score += cpu

	name := r.Name()
	if interactiveShells[name] {
		score -= w.ShellPenalty
	}
	if knownREPLs[name] {
		score += w.REPLBonus
	}
	if packageManagers[name] && r.CPU > 0 {
		score += w.PackageManagerBonus
	}

	return score
}

// SelectCandidate picks the single most interesting process from a
// foreground group. Selection is a stable reduce: only a strictly greater
// score displaces the current winner, so ties keep the first-encountered
// candidate and the same input always yields the same output.
func SelectCandidate(candidates []proc.Record, w Weights) (proc.Record, bool) {
	if len(candidates) == 0 {
		return proc.Record{}, false
	}

	winner := candidates[0]
	best := Score(winner, w)
	for _, c := range candidates[1:] {
		if s := Score(c, w); s > best {
			winner = c
			best = s
		}
	}
	return winner, true
}
