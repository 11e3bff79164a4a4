// Package proc observes the OS process table through the lens of a single
// terminal device.
//
// Three read-only queries are provided:
//   - Snapshot: every process attached to a terminal device, parsed from ps
//   - Tree: parent/child adjacency derived from a snapshot, with bounded
//     descendant and ancestor walks that tolerate inconsistent parent ids
//   - ForegroundGroup: the process group currently holding foreground
//     control of the device
//
// All OS-query failures degrade to "no information" rather than errors:
// a missing device, an unavailable ps binary, or unparseable output all
// yield an empty result, which callers treat as "no active process".
package proc
