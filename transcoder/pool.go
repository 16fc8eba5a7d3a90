package transcoder

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 64 << 10 // max pooled scratch bytes
	poolInitCap = 256
)

// scratch byte buffer pool for staging guest memory writes
var bufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, poolInitCap)
		return &buf
	},
}

// getBuf returns a pooled buffer of length n. Buffers above poolMaxCap are
// allocated directly and dropped by putBuf.
func getBuf(n int) *[]byte {
	if n > poolMaxCap {
		buf := make([]byte, n)
		return &buf
	}
	buf := bufPool.Get().(*[]byte)
	if cap(*buf) < n {
		*buf = make([]byte, n)
	}
	*buf = (*buf)[:n]
	return buf
}

func putBuf(buf *[]byte) {
	if buf == nil || cap(*buf) > poolMaxCap {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	bufPool.Put(buf)
}
