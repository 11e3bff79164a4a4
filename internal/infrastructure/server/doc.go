// Package server wires configuration, logging, metrics, providers, and
// HTTP routes into a runnable service.
package server
