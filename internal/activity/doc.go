// Package activity answers the question "what is running on this terminal
// right now, and what is it costing?".
//
// The Resolver orchestrates a process-table snapshot and a foreground-group
// query against one terminal device, scores the foreground candidates with
// an interest heuristic, labels the winner with an execution environment
// (REPL, package manager, Rails console), and rolls up CPU and memory usage
// across the winner's descendant subtree.
//
// Absence of information is always representable and always preferred over
// raising: every degradation path (missing device, empty snapshot,
// unresolvable foreground group, internal failure) yields a nil
// ActiveProcess with a nil error.
package activity
