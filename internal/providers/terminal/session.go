package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termwatch/internal/idle"
	"github.com/GriffinCanCode/termwatch/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termwatch/internal/shared/id"
)

// Manager manages terminal sessions. All sessions share one idle detector;
// per-device poll state lives inside each wait call, so concurrent
// Execute calls on different sessions do not interfere.
type Manager struct {
	sessions     sync.Map // map[string]*Session
	detector     *idle.Detector
	metrics      *monitoring.Metrics
	logger       *zap.Logger
	bufferSize   int
	defaultShell string
	defaultCols  int
	defaultRows  int
}

// NewManager creates a new session manager
func NewManager(detector *idle.Detector, bufferSize int, logger *zap.Logger) *Manager {
	if bufferSize <= 0 {
		bufferSize = 1024 * 1024
	}
	return &Manager{
		detector:   detector,
		logger:     logger,
		bufferSize: bufferSize,
	}
}

// WithMetrics attaches session gauges to the manager.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithDefaults sets the shell and dimensions used when a create request
// leaves them unset.
func (m *Manager) WithDefaults(shell string, cols, rows int) *Manager {
	m.defaultShell = shell
	m.defaultCols = cols
	m.defaultRows = rows
	return m
}

// CreateSession creates a new terminal session with PTY
func (m *Manager) CreateSession(shell, workingDir string, cols, rows int, env map[string]string) (*SessionInfo, error) {
	// Default shell
	if shell == "" {
		shell = m.defaultShell
	}
	if shell == "" {
		shell = os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/bash"
		}
	}

	// Default working directory
	if workingDir == "" {
		workingDir = os.Getenv("HOME")
		if workingDir == "" {
			workingDir = "/tmp"
		}
	}

	// Default dimensions
	if cols <= 0 {
		cols = m.defaultCols
	}
	if rows <= 0 {
		rows = m.defaultRows
	}
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}

	sessionID := id.NewTerminalID().String()

	// Open the pty pair ourselves rather than pty.Start: the slave's
	// device path is what the process-table queries key off, so it must
	// be captured before the parent closes its copy.
	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open pty: %w", err)
	}
	device := tty.Name()

	if err := pty.Setsize(ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		ptmx.Close()
		tty.Close()
		return nil, fmt.Errorf("failed to size pty: %w", err)
	}

	cmd := exec.Command(shell)
	cmd.Dir = workingDir
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	// The shell becomes session leader with the slave as controlling
	// terminal; foreground-group resolution depends on this.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")
	for key, value := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	if err := cmd.Start(); err != nil {
		ptmx.Close()
		tty.Close()
		return nil, fmt.Errorf("failed to start shell: %w", err)
	}

	// The child holds its own descriptor for the slave side.
	tty.Close()

	session := &Session{
		ID:         sessionID,
		Shell:      shell,
		WorkingDir: workingDir,
		Device:     device,
		PID:        cmd.Process.Pid,
		Cols:       cols,
		Rows:       rows,
		StartedAt:  time.Now(),
		cmd:        cmd,
		ptmx:       ptmx,
		outputBuf:  NewBuffer(m.bufferSize),
	}

	m.sessions.Store(sessionID, session)
	if m.metrics != nil {
		m.metrics.SessionOpened()
	}

	m.logger.Info("terminal session created",
		zap.String("session_id", sessionID),
		zap.String("shell", shell),
		zap.String("device", device),
		zap.Int("pid", session.PID),
	)

	go m.readOutput(session)
	go m.monitorProcess(session)

	return session.info(true), nil
}

// readOutput continuously reads from PTY and buffers output
func (m *Manager) readOutput(session *Session) {
	buf := make([]byte, 4096)
	for {
		n, err := session.ptmx.Read(buf)
		if n > 0 {
			session.outputBuf.Write(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				m.logger.Debug("pty read ended",
					zap.String("session_id", session.ID),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// monitorProcess waits for the shell to exit and cleans up
func (m *Manager) monitorProcess(session *Session) {
	session.cmd.Wait()

	session.mu.Lock()
	alreadyClosed := session.closed
	session.closed = true
	session.mu.Unlock()

	session.ptmx.Close()

	if !alreadyClosed {
		if m.metrics != nil {
			m.metrics.SessionClosed()
		}
		m.logger.Info("terminal session ended",
			zap.String("session_id", session.ID),
		)
	}
}

// Write sends raw input to a session
func (m *Manager) Write(sessionID string, input []byte) error {
	session, err := m.get(sessionID)
	if err != nil {
		return err
	}

	if session.isClosed() {
		return fmt.Errorf("session is closed: %s", sessionID)
	}

	_, err = session.ptmx.Write(input)
	return err
}

// Read drains buffered output from a session
func (m *Manager) Read(sessionID string) ([]byte, error) {
	session, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.outputBuf.ReadAll(), nil
}

// Execute sends a command to the session's terminal, waits until the idle
// detector declares the device settled, and returns everything the
// terminal printed in between. The outcome tells the caller whether the
// wait ended in idleness, a timeout, or cancellation.
func (m *Manager) Execute(ctx context.Context, sessionID, command string) (string, idle.Outcome, error) {
	session, err := m.get(sessionID)
	if err != nil {
		return "", idle.OutcomeCanceled, err
	}
	if session.isClosed() {
		return "", idle.OutcomeCanceled, fmt.Errorf("session is closed: %s", sessionID)
	}

	// Drop pending output so the read below starts at this command.
	session.outputBuf.ReadAll()

	if _, err := session.ptmx.Write([]byte(command + "\n")); err != nil {
		return "", idle.OutcomeCanceled, fmt.Errorf("failed to send command: %w", err)
	}

	outcome := m.detector.Wait(ctx, session.Device)
	output := string(session.outputBuf.ReadAll())

	return output, outcome, nil
}

// Device returns the session's terminal device path.
func (m *Manager) Device(sessionID string) (string, error) {
	session, err := m.get(sessionID)
	if err != nil {
		return "", err
	}
	return session.Device, nil
}

// Resize changes terminal dimensions
func (m *Manager) Resize(sessionID string, cols, rows int) error {
	session, err := m.get(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return fmt.Errorf("session is closed: %s", sessionID)
	}

	session.Cols = cols
	session.Rows = rows

	return pty.Setsize(session.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

// Kill terminates a session
func (m *Manager) Kill(sessionID string) error {
	session, err := m.get(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	alreadyClosed := session.closed
	session.closed = true
	session.mu.Unlock()

	if !alreadyClosed {
		if session.cmd.Process != nil {
			session.cmd.Process.Kill()
		}
		session.ptmx.Close()
		if m.metrics != nil {
			m.metrics.SessionClosed()
		}
	}

	m.sessions.Delete(sessionID)
	return nil
}

// Shutdown kills every session, used on server close.
func (m *Manager) Shutdown() {
	for _, info := range m.ListSessions() {
		m.Kill(info.ID)
	}
}

// ListSessions returns all known sessions
func (m *Manager) ListSessions() []SessionInfo {
	var sessions []SessionInfo
	m.sessions.Range(func(_, value interface{}) bool {
		session := value.(*Session)
		sessions = append(sessions, *session.info(!session.isClosed()))
		return true
	})
	return sessions
}

// GetSession retrieves session info
func (m *Manager) GetSession(sessionID string) (*SessionInfo, error) {
	session, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.info(!session.isClosed()), nil
}

func (m *Manager) get(sessionID string) (*Session, error) {
	value, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	return value.(*Session), nil
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Session) info(active bool) *SessionInfo {
	return &SessionInfo{
		ID:         s.ID,
		Shell:      s.Shell,
		WorkingDir: s.WorkingDir,
		Device:     s.Device,
		PID:        s.PID,
		Cols:       s.Cols,
		Rows:       s.Rows,
		StartedAt:  s.StartedAt,
		Active:     active,
	}
}
