package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferWriteRead(t *testing.T) {
	buf := NewBuffer(16)

	n, err := buf.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, buf.Len())

	assert.Equal(t, []byte("hello"), buf.ReadAll())
	assert.Equal(t, 0, buf.Len())
}

func TestBufferDrainsOnRead(t *testing.T) {
	buf := NewBuffer(16)

	buf.Write([]byte("first"))
	buf.ReadAll()

	buf.Write([]byte("second"))
	assert.Equal(t, []byte("second"), buf.ReadAll())
	assert.Empty(t, buf.ReadAll())
}

func TestBufferOverwritesOldest(t *testing.T) {
	buf := NewBuffer(8)

	buf.Write([]byte("abcdefgh"))
	buf.Write([]byte("XY"))

	// Capacity is 8, so the two oldest bytes are gone.
	assert.Equal(t, []byte("cdefghXY"), buf.ReadAll())
}

func TestBufferWrapAround(t *testing.T) {
	buf := NewBuffer(8)

	buf.Write([]byte("abcdefgh"))
	buf.Write([]byte("XY"))
	// Write position has wrapped past the physical end of the slice.
	buf.Write([]byte("1234"))

	assert.Equal(t, []byte("ghXY1234"), buf.ReadAll())
}

func TestBufferDefaultCapacity(t *testing.T) {
	buf := NewBuffer(0)
	assert.Equal(t, 64*1024, buf.size)
}
