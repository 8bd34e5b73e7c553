package stream

import "sync"

// Loop runs posted events one at a time in FIFO order.
//
// Post may be called from any goroutine. The goroutine that finds the loop
// idle drains the queue; events posted while an event runs, including from
// inside it, wait until it returns.
type Loop struct {
	mu         sync.Mutex
	queue      []func()
	draining   bool
	dispatched uint64
}

// Post enqueues fn and drains the queue if no other goroutine is doing so.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	if l.draining {
		l.mu.Unlock()
		return
	}
	l.draining = true
	l.mu.Unlock()
	l.drain()
}

func (l *Loop) drain() {
	idle := false
	defer func() {
		// an event panicked; let the next Post drain
		if !idle {
			l.mu.Lock()
			l.draining = false
			l.mu.Unlock()
		}
	}()
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.draining = false
			l.mu.Unlock()
			idle = true
			return
		}
		next := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.dispatched++
		l.mu.Unlock()
		next()
	}
}

// Pending returns the number of queued events.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Dispatched returns how many events have been run.
func (l *Loop) Dispatched() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dispatched
}
