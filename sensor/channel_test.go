package sensor

import (
	"sync"
	"testing"
	"time"
)

func TestLatestNewestWins(t *testing.T) {
	l := NewLatest[int]()
	if _, ok := l.TryRecv(); ok {
		t.Fatal("empty slot returned a value")
	}

	l.Publish(1)
	if replaced := l.Publish(2); !replaced {
		t.Error("expected second publish to replace the first")
	}
	l.Publish(3)

	v, ok := l.TryRecv()
	if !ok || v != 3 {
		t.Errorf("expected 3, got %d (%v)", v, ok)
	}
	if _, ok := l.TryRecv(); ok {
		t.Error("slot should be empty after receive")
	}
}

func TestLatestNeverBlocksProducer(t *testing.T) {
	l := NewLatest[int]()
	const n = 100000

	done := make(chan struct{})
	go func() {
		for i := 1; i <= n; i++ {
			l.Publish(i)
		}
		close(done)
	}()

	// Slow consumer: values must only move forward
	deadline := time.After(5 * time.Second)
	last := 0
	for {
		select {
		case <-done:
			v, ok := l.TryRecv()
			if ok {
				if v < last {
					t.Fatalf("stale value %d after %d", v, last)
				}
				last = v
			}
			if last != n {
				t.Errorf("expected final value %d, got %d", n, last)
			}
			return
		case <-deadline:
			t.Fatal("producer blocked")
		default:
		}
		if v, ok := l.TryRecv(); ok {
			if v < last {
				t.Fatalf("stale value %d after %d", v, last)
			}
			last = v
		}
		time.Sleep(10 * time.Microsecond)
	}
}

func TestQueueDropsNewWhenFull(t *testing.T) {
	q := NewQueue[int](3)
	for i := 1; i <= 5; i++ {
		ok := q.Offer(i)
		if want := i <= 3; ok != want {
			t.Errorf("offer %d: expected %v, got %v", i, want, ok)
		}
	}

	got := q.Drain()
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", got)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, got %d", q.Len())
	}
}

func TestQueueClear(t *testing.T) {
	q := NewQueue[Blink](8)
	q.Offer(Blink{Seq: 1})
	q.Offer(Blink{Seq: 2})
	if n := q.Clear(); n != 2 {
		t.Errorf("expected 2 cleared, got %d", n)
	}
	if got := q.Drain(); len(got) != 0 {
		t.Errorf("expected nothing after clear, got %v", got)
	}
}

func TestQueueConcurrentOffer(t *testing.T) {
	q := NewQueue[int](4)
	var wg sync.WaitGroup
	accepted := make([]int, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if q.Offer(i) {
					accepted[g]++
				}
			}
		}(g)
	}
	wg.Wait()

	total := 0
	for _, n := range accepted {
		total += n
	}
	if total != q.Cap() || q.Len() != q.Cap() {
		t.Errorf("expected exactly %d accepted, got %d (len %d)", q.Cap(), total, q.Len())
	}
}
