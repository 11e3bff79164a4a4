// Package http provides REST handlers for terminal sessions, activity
// inspection, and service execution.
package http
