package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termwatch/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termwatch/internal/providers/terminal"
	"github.com/GriffinCanCode/termwatch/internal/shared/types"
)

// pollInterval is how often buffered session output is flushed to the
// client when no input arrives.
const pollInterval = 50 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Handler manages WebSocket connections
type Handler struct {
	terminals *terminal.Manager
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// wsConn serializes writes; the poll loop and the read loop both send.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) write(payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.TextMessage, payload)
}

// NewHandler creates a new WebSocket handler
func NewHandler(terminals *terminal.Manager, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		terminals: terminals,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleConnection handles WebSocket upgrade and message exchange. The
// session_id query parameter selects which terminal to stream.
func (h *Handler) HandleConnection(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	if _, err := h.terminals.GetSession(sessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	raw, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer raw.Close()
	conn := &wsConn{conn: raw}

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	h.send(conn, types.WSMessage{
		Type:      "system",
		SessionID: sessionID,
		Message:   "connected",
	})

	done := make(chan struct{})
	go h.readLoop(conn, sessionID, done)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			output, err := h.terminals.Read(sessionID)
			if err != nil {
				h.send(conn, types.WSMessage{
					Type:      "closed",
					SessionID: sessionID,
				})
				return
			}
			if len(output) == 0 {
				continue
			}
			if err := h.send(conn, types.WSMessage{
				Type:      "output",
				SessionID: sessionID,
				Data:      string(output),
			}); err != nil {
				return
			}
		}
	}
}

// readLoop forwards client messages to the session until the connection
// drops.
func (h *Handler) readLoop(conn *wsConn, sessionID string, done chan<- struct{}) {
	defer close(done)

	for {
		_, payload, err := conn.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(payload, &msg); err != nil {
			h.sendError(conn, "malformed message")
			continue
		}

		switch msg.Type {
		case "input":
			if err := h.terminals.Write(sessionID, []byte(msg.Data)); err != nil {
				h.sendError(conn, err.Error())
			}
		case "ping":
			h.send(conn, types.WSMessage{Type: "pong"})
		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

func (h *Handler) send(conn *wsConn, msg types.WSMessage) error {
	payload, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.write(payload)
}

func (h *Handler) sendError(conn *wsConn, message string) {
	h.send(conn, types.WSMessage{
		Type:    "error",
		Message: message,
	})
}
