package terminal

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/GriffinCanCode/termwatch/internal/shared/types"
)

// Provider implements terminal session operations
type Provider struct {
	manager *Manager
}

// NewProvider creates a new terminal provider
func NewProvider(manager *Manager) *Provider {
	return &Provider{manager: manager}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Terminal Service",
		Description: "Interactive terminal sessions with PTY support and command execution gated on idle detection",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"pty",
			"shell",
			"interactive",
			"sessions",
			"resize",
			"execute",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "terminal.create_session":
		return p.createSession(params)
	case "terminal.write":
		return p.write(params)
	case "terminal.read":
		return p.read(params)
	case "terminal.execute":
		return p.execute(ctx, params)
	case "terminal.resize":
		return p.resize(params)
	case "terminal.list_sessions":
		return p.listSessions()
	case "terminal.get_session":
		return p.getSession(params)
	case "terminal.kill":
		return p.kill(params)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "terminal.create_session",
			Name:        "Create Terminal Session",
			Description: "Create a new interactive terminal session with PTY",
			Parameters: []types.Parameter{
				{
					Name:        "shell",
					Type:        "string",
					Description: "Shell to use (e.g., /bin/bash, /bin/zsh). Defaults to user's shell",
					Required:    false,
				},
				{
					Name:        "working_dir",
					Type:        "string",
					Description: "Initial working directory. Defaults to user's home",
					Required:    false,
				},
				{
					Name:        "cols",
					Type:        "number",
					Description: "Terminal width in columns. Defaults to 80",
					Required:    false,
				},
				{
					Name:        "rows",
					Type:        "number",
					Description: "Terminal height in rows. Defaults to 24",
					Required:    false,
				},
				{
					Name:        "env",
					Type:        "object",
					Description: "Environment variables to set",
					Required:    false,
				},
			},
			Returns: "session_info",
		},
		{
			ID:          "terminal.write",
			Name:        "Write to Terminal",
			Description: "Send raw input to a terminal session",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
				{
					Name:        "input",
					Type:        "string",
					Description: "Input to send to terminal",
					Required:    true,
				},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.read",
			Name:        "Read from Terminal",
			Description: "Read buffered output from a terminal session",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
			},
			Returns: "output_data",
		},
		{
			ID:          "terminal.execute",
			Name:        "Execute Command",
			Description: "Run a command in a session and wait for the terminal to go idle before collecting output",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
				{
					Name:        "command",
					Type:        "string",
					Description: "Command line to run",
					Required:    true,
				},
				{
					Name:        "timeout_ms",
					Type:        "number",
					Description: "Maximum time to wait for idle before returning whatever output accumulated",
					Required:    false,
				},
			},
			Returns: "execution_result",
		},
		{
			ID:          "terminal.resize",
			Name:        "Resize Terminal",
			Description: "Change terminal dimensions",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
				{
					Name:        "cols",
					Type:        "number",
					Description: "New width in columns",
					Required:    true,
				},
				{
					Name:        "rows",
					Type:        "number",
					Description: "New height in rows",
					Required:    true,
				},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.list_sessions",
			Name:        "List Terminal Sessions",
			Description: "List all active terminal sessions",
			Parameters:  []types.Parameter{},
			Returns:     "sessions_list",
		},
		{
			ID:          "terminal.get_session",
			Name:        "Get Session Info",
			Description: "Get information about a terminal session",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
			},
			Returns: "session_info",
		},
		{
			ID:          "terminal.kill",
			Name:        "Kill Terminal Session",
			Description: "Terminate a terminal session",
			Parameters: []types.Parameter{
				{
					Name:        "session_id",
					Type:        "string",
					Description: "Terminal session ID",
					Required:    true,
				},
			},
			Returns: "success",
		},
	}
}

func (p *Provider) createSession(params map[string]interface{}) (*types.Result, error) {
	shell, _ := params["shell"].(string)
	workingDir, _ := params["working_dir"].(string)

	cols := 0
	if c, ok := params["cols"].(float64); ok {
		cols = int(c)
	}

	rows := 0
	if r, ok := params["rows"].(float64); ok {
		rows = int(r)
	}

	env := make(map[string]string)
	if envMap, ok := params["env"].(map[string]interface{}); ok {
		for k, v := range envMap {
			if str, ok := v.(string); ok {
				env[k] = str
			}
		}
	}

	session, err := p.manager.CreateSession(shell, workingDir, cols, rows, env)
	if err != nil {
		return nil, err
	}

	return &types.Result{
		Success: true,
		Data:    sessionData(session),
	}, nil
}

func (p *Provider) write(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return nil, fmt.Errorf("session_id is required")
	}

	input, ok := params["input"].(string)
	if !ok {
		return nil, fmt.Errorf("input is required")
	}

	if err := p.manager.Write(sessionID, []byte(input)); err != nil {
		return nil, err
	}

	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"success": true},
	}, nil
}

func (p *Provider) read(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return nil, fmt.Errorf("session_id is required")
	}

	output, err := p.manager.Read(sessionID)
	if err != nil {
		return nil, err
	}

	// Encode output as base64 to handle binary data
	encoded := base64.StdEncoding.EncodeToString(output)

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"output":        string(output),
			"output_base64": encoded,
			"length":        len(output),
		},
	}, nil
}

func (p *Provider) execute(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return nil, fmt.Errorf("session_id is required")
	}

	command, ok := params["command"].(string)
	if !ok {
		return nil, fmt.Errorf("command is required")
	}

	if t, ok := params["timeout_ms"].(float64); ok && t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(t)*time.Millisecond)
		defer cancel()
	}

	output, outcome, err := p.manager.Execute(ctx, sessionID, command)
	if err != nil {
		return nil, err
	}

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"output":  output,
			"outcome": outcome.String(),
			"length":  len(output),
		},
	}, nil
}

func (p *Provider) resize(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return nil, fmt.Errorf("session_id is required")
	}

	cols, ok := params["cols"].(float64)
	if !ok {
		return nil, fmt.Errorf("cols is required")
	}

	rows, ok := params["rows"].(float64)
	if !ok {
		return nil, fmt.Errorf("rows is required")
	}

	if err := p.manager.Resize(sessionID, int(cols), int(rows)); err != nil {
		return nil, err
	}

	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"success": true},
	}, nil
}

func (p *Provider) listSessions() (*types.Result, error) {
	sessions := p.manager.ListSessions()

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"sessions": sessions,
			"count":    len(sessions),
		},
	}, nil
}

func (p *Provider) getSession(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return nil, fmt.Errorf("session_id is required")
	}

	session, err := p.manager.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	return &types.Result{
		Success: true,
		Data:    sessionData(session),
	}, nil
}

func (p *Provider) kill(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return nil, fmt.Errorf("session_id is required")
	}

	if err := p.manager.Kill(sessionID); err != nil {
		return nil, err
	}

	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"success": true},
	}, nil
}

func sessionData(session *SessionInfo) map[string]interface{} {
	return map[string]interface{}{
		"id":          session.ID,
		"shell":       session.Shell,
		"working_dir": session.WorkingDir,
		"device":      session.Device,
		"pid":         session.PID,
		"cols":        session.Cols,
		"rows":        session.Rows,
		"started_at":  session.StartedAt,
		"active":      session.Active,
	}
}
