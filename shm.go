package mailbox

import (
	"fmt"
	"io"
	"os"
)

// SharedMemory is an attached System V shared-memory segment. It implements
// io.ReaderAt and io.WriterAt over the process-local mapping.
//
// Segments are created or attached with AttachSharedMemory. Both processes
// must use the same key and agree on the size.
//
// Example:
//
//	seg, _ := mailbox.AttachSharedMemory(key, mailbox.SegmentSize, 0666)
//	seg.WriteAt([]byte("hello"), 0)
//	seg.Close()  // detach
//	seg.Remove() // mark for destruction once every process has detached
type SharedMemory struct {
	// data is the local mapping, nil once detached
	data []byte

	// Key is the System V key the segment was looked up with.
	Key int

	// ID is the kernel identifier of the segment.
	ID int
}

// AttachSharedMemory creates the segment for key if it does not exist and
// maps it into the address space of the calling process.
func AttachSharedMemory(key, size int, perm os.FileMode) (*SharedMemory, error) {
	id, err := shmGet(key, size, perm, true)
	if err != nil {
		return nil, opError("shmget", KindSharedMemory, err)
	}
	data, err := shmAttach(id)
	if err != nil {
		return nil, opError("shmat", KindSharedMemory, err)
	}
	return &SharedMemory{data: data, Key: key, ID: id}, nil
}

// Size returns the size of the mapping in bytes, zero once detached.
func (o *SharedMemory) Size() int {
	return len(o.data)
}

// ReadAt copies len(p) bytes starting at off into p.
func (o *SharedMemory) ReadAt(p []byte, off int64) (int, error) {
	if o.data == nil {
		return 0, ErrClosed
	}
	if off < 0 || off > int64(len(o.data)) {
		return 0, fmt.Errorf("shared memory: invalid offset %d", off)
	}
	n := copy(p, o.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt copies p into the segment starting at off. Writes past the end of
// the segment are cut short and report io.ErrShortWrite.
func (o *SharedMemory) WriteAt(p []byte, off int64) (int, error) {
	if o.data == nil {
		return 0, ErrClosed
	}
	if off < 0 || off > int64(len(o.data)) {
		return 0, fmt.Errorf("shared memory: invalid offset %d", off)
	}
	n := copy(o.data[off:], p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Bytes exposes the mapping itself. The slice is only valid until Close.
func (o *SharedMemory) Bytes() []byte {
	return o.data
}

// Close detaches the local mapping. The segment itself survives until Remove
// has been called and every process has detached.
func (o *SharedMemory) Close() error {
	if o.data == nil {
		return nil
	}
	if err := shmDetach(o.data); err != nil {
		return opError("shmdt", KindSharedMemory, err)
	}
	o.data = nil
	return nil
}

// Remove marks the segment for destruction. A segment that is already gone
// is not an error.
func (o *SharedMemory) Remove() error {
	if err := shmRemove(o.ID); err != nil {
		return opError("shmctl", KindSharedMemory, err)
	}
	return nil
}
