package exchange

import "io"

// maxEmptyReads bounds consecutive zero-byte reads before fill gives up.
const maxEmptyReads = 100

// buffer is the growable read buffer owned by one Exchange. Bytes in
// data[:end] are valid; the parser cursor lives on the Exchange.
type buffer struct {
	data  []byte
	end   int
	limit int
}

func newBuffer(initial, limit int) *buffer {
	return &buffer{data: make([]byte, initial), limit: limit}
}

// preload copies bytes already read from the connection (pipelined input
// left over by the previous exchange) into the buffer.
func (b *buffer) preload(p []byte) error {
	if err := b.ensure(len(p)); err != nil {
		return err
	}
	b.end = copy(b.data, p)
	return nil
}

// fill reads at least one more byte into the buffer, growing it first when it
// is full. It returns errBufferFull once the limit is reached.
func (b *buffer) fill(r io.Reader) error {
	if b.end == len(b.data) {
		if err := b.ensure(b.end + 1); err != nil {
			return err
		}
	}
	for range maxEmptyReads {
		n, err := r.Read(b.data[b.end:])
		b.end += n
		if n > 0 {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return io.ErrNoProgress
}

// ensure grows the buffer so it can hold at least n bytes, doubling when that
// suffices and never exceeding the limit.
func (b *buffer) ensure(n int) error {
	if n <= len(b.data) {
		return nil
	}
	if n > b.limit {
		return errBufferFull
	}
	size := max(2*len(b.data), n)
	size = min(size, b.limit)
	grown := make([]byte, size)
	copy(grown, b.data[:b.end])
	b.data = grown
	return nil
}
