// Package config loads application configuration from environment
// variables with sane defaults, using kelseyhightower/envconfig.
//
// Every empirically-chosen constant of the idle detection loop (poll
// cadence, CPU threshold, sustained-idle duration) is surfaced here so
// deployments can tune them without code changes.
package config
