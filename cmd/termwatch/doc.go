// Package main is the entry point for the termwatch server.
//
// The server provides:
//   - PTY-backed terminal sessions
//   - Foreground process resolution with environment classification
//   - Idle detection for command execution
//   - REST API plus WebSocket output streaming
//   - Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./termwatch -port 8090
//
//	# Development mode (colored logs, debug level)
//	./termwatch -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
