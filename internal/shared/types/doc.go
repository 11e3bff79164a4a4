// Package types defines the shared service and request types used across
// the tool-serving surface: service definitions, tool metadata, execution
// results, and the HTTP/WS request shapes.
package types
