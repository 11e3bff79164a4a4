// Package ws streams terminal output over WebSocket connections.
//
// Clients attach to one session per connection, receive buffered output as
// it accumulates, and can send input and control messages back.
package ws
