package types

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params" binding:"required"`
}

// CreateTerminalRequest represents a terminal session creation request
type CreateTerminalRequest struct {
	Shell      string            `json:"shell"`
	WorkingDir string            `json:"working_dir"`
	Cols       int               `json:"cols"`
	Rows       int               `json:"rows"`
	Env        map[string]string `json:"env"`
}

// TerminalInputRequest represents raw input sent to a terminal session
type TerminalInputRequest struct {
	Input string `json:"input" binding:"required"`
}

// CommandRequest represents a command executed against a terminal session,
// waiting for the terminal to go idle before returning output
type CommandRequest struct {
	Command   string `json:"command" binding:"required"`
	TimeoutMS int    `json:"timeout_ms"`
}

// WSMessage represents a WebSocket message sent on a terminal stream
type WSMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Data      string `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
}
