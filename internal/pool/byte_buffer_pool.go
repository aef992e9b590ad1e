package pool

import (
	"sync"
)

const (
	// FileBufferDefaultSize is the initial capacity of buffers used to
	// serialize a single weft file. Typical files are tens of KiB.
	FileBufferDefaultSize = 1024 * 16 // 16KiB

	// FileBufferMaxThreshold is the largest buffer the pool retains. Buffers
	// that grew beyond this (huge forty-eight hour runs) are dropped so the
	// pool does not pin them.
	FileBufferMaxThreshold = 1024 * 512 // 512KiB
)

// ByteBuffer is a reusable byte slice wrapper handed out by GetFileBuffer.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Write appends data to the buffer, growing it if necessary. It implements
// io.Writer and never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

var fileBufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, FileBufferDefaultSize)}
	},
}

// GetFileBuffer obtains a reset ByteBuffer from the pool.
func GetFileBuffer() *ByteBuffer {
	bb, _ := fileBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutFileBuffer returns a ByteBuffer to the pool. Oversized buffers are
// dropped instead of retained.
func PutFileBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > FileBufferMaxThreshold {
		return
	}
	fileBufferPool.Put(bb)
}
