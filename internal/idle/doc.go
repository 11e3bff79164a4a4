// Package idle decides when a terminal has finished the command it was
// given and is waiting for new input.
//
// The detector polls the active-process resolver on a fixed cadence and
// declares the terminal idle once total CPU usage has stayed below a
// threshold for a sustained duration, or immediately when no active
// process exists at all. Failures fail open: a broken device reports idle
// rather than hanging the caller.
//
// Each Wait call owns its accumulator exclusively; independent terminals
// may be polled concurrently with no shared state.
package idle
