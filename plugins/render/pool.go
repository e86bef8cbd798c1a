package render

import (
	"bytes"
	"sync"
)

// Tiered buffer sizes, chosen by the number of members (properties,
// methods, enum values) a template renders.
const (
	smallBufferSize  = 4 * 1024  // 4KB for <10 members
	mediumBufferSize = 16 * 1024 // 16KB for 10-50 members
	largeBufferSize  = 64 * 1024 // 64KB for 50+ members

	maxPooledBufferSize = 1 << 20
)

var smallBufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, smallBufferSize))
	},
}

var mediumBufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, mediumBufferSize))
	},
}

var largeBufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, largeBufferSize))
	},
}

// getBuffer returns an empty buffer sized for members.
func getBuffer(members int) *bytes.Buffer {
	var buf *bytes.Buffer
	switch {
	case members < 10:
		buf = smallBufferPool.Get().(*bytes.Buffer)
	case members < 50:
		buf = mediumBufferPool.Get().(*bytes.Buffer)
	default:
		buf = largeBufferPool.Get().(*bytes.Buffer)
	}
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool it came from.
func putBuffer(buf *bytes.Buffer, members int) {
	if buf == nil {
		return
	}
	// Don't pool oversized buffers
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	switch {
	case members < 10:
		smallBufferPool.Put(buf)
	case members < 50:
		mediumBufferPool.Put(buf)
	default:
		largeBufferPool.Put(buf)
	}
}
