package terminal

import (
	"os"
	"os/exec"
	"sync"
	"time"
)

// Session represents an active terminal session
type Session struct {
	ID         string
	Shell      string
	WorkingDir string
	Device     string // slave pty device path, e.g. /dev/pts/3
	PID        int    // shell process id
	Cols       int
	Rows       int
	StartedAt  time.Time

	// Process management
	cmd  *exec.Cmd
	ptmx *os.File

	// Output buffering
	outputBuf *Buffer

	// Lifecycle
	mu     sync.RWMutex
	closed bool
}

// SessionInfo is the public representation of a session
type SessionInfo struct {
	ID         string    `json:"id"`
	Shell      string    `json:"shell"`
	WorkingDir string    `json:"working_dir"`
	Device     string    `json:"device"`
	PID        int       `json:"pid"`
	Cols       int       `json:"cols"`
	Rows       int       `json:"rows"`
	StartedAt  time.Time `json:"started_at"`
	Active     bool      `json:"active"`
}

// Buffer is a thread-safe ring buffer for terminal output. When full, the
// oldest bytes are overwritten; a read drains everything accumulated
// since the previous read.
type Buffer struct {
	data  []byte
	size  int
	start int
	count int
	mu    sync.Mutex
}

// NewBuffer creates a new ring buffer of the given capacity
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = 64 * 1024
	}
	return &Buffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write appends data, overwriting the oldest bytes once full
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range p {
		b.data[(b.start+b.count)%b.size] = c
		if b.count < b.size {
			b.count++
		} else {
			b.start = (b.start + 1) % b.size
		}
	}

	return len(p), nil
}

// ReadAll drains and returns all buffered data
func (b *Buffer) ReadAll() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]byte, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.data[(b.start+i)%b.size]
	}

	b.start = 0
	b.count = 0
	return out
}

// Len returns the number of unread bytes
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
