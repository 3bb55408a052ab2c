package session

import "sync"

type delivery struct {
	n Notification
	l Listener
}

// dispatcher hands batches to listeners on its own goroutine, one at a time
// and in the order they were posted. Listeners never run on the goroutine
// that produced the batch, so they may call any session method, Close
// included.
type dispatcher struct {
	mu      sync.Mutex
	queue   []delivery
	running bool
	stopped bool
}

func (d *dispatcher) post(n Notification, l Listener) {
	if l == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.queue = append(d.queue, delivery{n: n, l: l})
	if !d.running {
		d.running = true
		go d.drain()
	}
}

func (d *dispatcher) drain() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 || d.stopped {
			d.queue = nil
			d.running = false
			d.mu.Unlock()
			return
		}
		next := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()

		next.l(next.n)
	}
}

// stop drops undelivered batches. A listener already running is not waited
// for.
func (d *dispatcher) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.queue = nil
}

// idle reports whether nothing is queued or being delivered.
func (d *dispatcher) idle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.running
}
