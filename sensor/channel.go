package sensor

// Latest is a single-slot channel where a new value replaces any unread one.
// Publish must only be called from one goroutine.
type Latest[T any] struct {
	ch chan T
}

// NewLatest creates an empty slot.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{ch: make(chan T, 1)}
}

// Publish stores v, discarding an unread value. Never blocks.
// Returns true if an unread value was replaced.
func (l *Latest[T]) Publish(v T) (replaced bool) {
	for {
		select {
		case l.ch <- v:
			return replaced
		default:
		}
		select {
		case <-l.ch:
			replaced = true
		default:
		}
	}
}

// TryRecv takes the pending value if there is one.
func (l *Latest[T]) TryRecv() (T, bool) {
	select {
	case v := <-l.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Queue is a bounded channel that drops new values when full.
type Queue[T any] struct {
	ch chan T
}

// NewQueue creates a queue holding at most size values.
func NewQueue[T any](size int) *Queue[T] {
	if size < 1 {
		size = 1
	}
	return &Queue[T]{ch: make(chan T, size)}
}

// Offer enqueues v unless the queue is full. Never blocks.
func (q *Queue[T]) Offer(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// Drain removes and returns every pending value.
func (q *Queue[T]) Drain() []T {
	var out []T
	for {
		select {
		case v := <-q.ch:
			out = append(out, v)
		default:
			return out
		}
	}
}

// Clear discards every pending value and returns how many there were.
func (q *Queue[T]) Clear() int {
	return len(q.Drain())
}

// Len is the number of pending values.
func (q *Queue[T]) Len() int { return len(q.ch) }

// Cap is the queue capacity.
func (q *Queue[T]) Cap() int { return cap(q.ch) }
