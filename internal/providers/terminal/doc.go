// Package terminal provides pty-backed terminal sessions and the command
// executor built on top of idle detection.
//
// Each session owns a pseudo-terminal pair: the shell runs on the slave
// side as session leader with the slave as controlling terminal, which is
// what makes the slave's device path meaningful to the process-table
// queries. Foreground resolution and snapshots key off that path.
//
// Beyond raw write/read access, Execute implements the canonical control
// flow: send a command to the terminal, wait until the idle detector
// declares the device settled, then read the buffered output as the
// command's result.
//
// Architecture:
//   - creack/pty for the pty pair and resizing
//   - a ring buffer per session for output, drained by a reader goroutine
//   - a monitor goroutine that marks the session closed when the shell exits
//
// Tools:
//   - terminal.create_session: create new shell session with PTY
//   - terminal.write: send raw input to a session
//   - terminal.read: read buffered output from a session
//   - terminal.execute: run a command and wait for the terminal to go idle
//   - terminal.resize: resize terminal dimensions
//   - terminal.list_sessions: list all active sessions
//   - terminal.get_session: get session info including its device path
//   - terminal.kill: terminate session and cleanup
package terminal
