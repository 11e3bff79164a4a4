package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/termwatch/internal/activity"
	"github.com/GriffinCanCode/termwatch/internal/idle"
	"github.com/GriffinCanCode/termwatch/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termwatch/internal/providers/terminal"
	"github.com/GriffinCanCode/termwatch/internal/service"
	"github.com/GriffinCanCode/termwatch/internal/shared/id"
	"github.com/GriffinCanCode/termwatch/internal/shared/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	registry  *service.Registry
	terminals *terminal.Manager
	resolver  *activity.Resolver
	detector  *idle.Detector
	metrics   *monitoring.Metrics
}

// NewHandlers creates a new handler set
func NewHandlers(
	registry *service.Registry,
	terminals *terminal.Manager,
	resolver *activity.Resolver,
	detector *idle.Detector,
	metrics *monitoring.Metrics,
) *Handlers {
	return &Handlers{
		registry:  registry,
		terminals: terminals,
		resolver:  resolver,
		detector:  detector,
		metrics:   metrics,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "termwatch",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
		"sessions":         len(h.terminals.ListSessions()),
	})
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	categoryStr := c.Query("category")

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	services := h.registry.List(category)
	stats := h.registry.Stats()

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"stats":    stats,
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requestID := id.NewRequestID().String()
	appCtx := &types.Context{RequestID: &requestID}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateTerminal creates a new terminal session
func (h *Handlers) CreateTerminal(c *gin.Context) {
	var req types.CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.terminals.CreateSession(req.Shell, req.WorkingDir, req.Cols, req.Rows, req.Env)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListTerminals lists all terminal sessions
func (h *Handlers) ListTerminals(c *gin.Context) {
	sessions := h.terminals.ListSessions()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetTerminal returns one terminal session
func (h *Handlers) GetTerminal(c *gin.Context) {
	session, err := h.terminals.GetSession(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// KillTerminal terminates a terminal session
func (h *Handlers) KillTerminal(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.terminals.Kill(sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": sessionID})
}

// TerminalInput sends raw input to a session
func (h *Handlers) TerminalInput(c *gin.Context) {
	var req types.TerminalInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.terminals.Write(c.Param("id"), []byte(req.Input)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TerminalOutput drains buffered output from a session
func (h *Handlers) TerminalOutput(c *gin.Context) {
	output, err := h.terminals.Read(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"output": string(output),
		"length": len(output),
	})
}

// RunCommand executes a command in a session and waits for the terminal
// to go idle before collecting output
func (h *Handlers) RunCommand(c *gin.Context) {
	var req types.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if req.TimeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMS)*time.Millisecond)
		defer cancel()
	}

	output, outcome, err := h.terminals.Execute(ctx, c.Param("id"), req.Command)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"output":  output,
		"outcome": outcome.String(),
		"length":  len(output),
	})
}

// ResizeTerminal changes terminal dimensions
func (h *Handlers) ResizeTerminal(c *gin.Context) {
	var req struct {
		Cols int `json:"cols" binding:"required"`
		Rows int `json:"rows" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.terminals.Resize(c.Param("id"), req.Cols, req.Rows); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ActiveProcess resolves the foreground process of a session's device
func (h *Handlers) ActiveProcess(c *gin.Context) {
	device, err := h.terminals.Device(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	active := h.resolver.Resolve(c.Request.Context(), device)
	if h.metrics != nil {
		h.metrics.RecordResolution(active != nil, time.Since(start))
	}

	c.JSON(http.StatusOK, gin.H{
		"device": device,
		"active": active,
	})
}

// WaitIdle blocks until the session's terminal goes idle
func (h *Handlers) WaitIdle(c *gin.Context) {
	device, err := h.terminals.Device(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		TimeoutMS int `json:"timeout_ms"`
	}
	// Body is optional; an empty request waits with default limits.
	c.ShouldBindJSON(&req)

	ctx := c.Request.Context()
	if req.TimeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMS)*time.Millisecond)
		defer cancel()
	}

	start := time.Now()
	outcome := h.detector.Wait(ctx, device)
	waited := time.Since(start)
	if h.metrics != nil {
		h.metrics.RecordIdleWait(outcome.String(), waited)
	}

	c.JSON(http.StatusOK, gin.H{
		"outcome":   outcome.String(),
		"waited_ms": waited.Milliseconds(),
	})
}
