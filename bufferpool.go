package mailbox

// bufferPool recycles fixed-size byte slices. The queue backend draws its
// struct msgbuf images from it so a long transfer does not allocate per line.
//
// bufferPool is safe for concurrent use; the channel does the locking.
type bufferPool struct {
	pool    chan []byte
	bufSize int
}

// newBufferPool creates a pool pre-populated with count zeroed buffers of
// bufSize bytes.
func newBufferPool(bufSize, count int) *bufferPool {
	pool := make(chan []byte, count)
	for i := 0; i < count; i++ {
		pool <- make([]byte, bufSize)
	}
	return &bufferPool{
		pool:    pool,
		bufSize: bufSize,
	}
}

// get returns a zeroed buffer of bufSize bytes, allocating when the pool is
// empty.
func (bp *bufferPool) get() []byte {
	select {
	case buf := <-bp.pool:
		return buf
	default:
		return make([]byte, bp.bufSize)
	}
}

// put clears buf and returns it to the pool. Buffers of the wrong capacity,
// or arriving when the pool is full, are left to the garbage collector.
func (bp *bufferPool) put(buf []byte) {
	if cap(buf) != bp.bufSize {
		return
	}
	buf = buf[:bp.bufSize]
	clear(buf)
	select {
	case bp.pool <- buf:
	default:
	}
}
