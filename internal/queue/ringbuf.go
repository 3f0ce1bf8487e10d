package queue

// ring is the fixed storage behind CondQueue.
//
// It is NOT safe for concurrent use; CondQueue serialises access with its
// mutex. The backing slice is rounded up to a power of two so indices can
// be masked, while the logical capacity stays exactly as requested.
type ring[T any] struct {
	buf  []T
	mask uint64
	size uint64

	head uint64 // next write position
	tail uint64 // next read position
}

func newRing[T any](size int) *ring[T] {
	// Round up to power of 2
	n := uint64(1)
	for n < uint64(size) {
		n <<= 1
	}

	return &ring[T]{
		buf:  make([]T, n),
		mask: n - 1,
		size: uint64(size),
	}
}

func (r *ring[T]) push(v T) bool {
	if r.head-r.tail >= r.size {
		return false
	}
	r.buf[r.head&r.mask] = v
	r.head++
	return true
}

func (r *ring[T]) pop() (T, bool) {
	var zero T
	if r.tail >= r.head {
		return zero, false
	}
	i := r.tail & r.mask
	v := r.buf[i]
	// Drop the reference so the slot does not pin the value.
	r.buf[i] = zero
	r.tail++
	return v, true
}

func (r *ring[T]) len() int {
	return int(r.head - r.tail)
}

func (r *ring[T]) full() bool {
	return r.head-r.tail >= r.size
}

func (r *ring[T]) empty() bool {
	return r.head == r.tail
}
