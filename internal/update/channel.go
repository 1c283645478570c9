package update

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when sending on a closed Sender or after the
// Receiver has gone away.
var ErrClosed = errors.New("update channel closed")

// queue is an unbounded FIFO shared by any number of senders and exactly one
// receiver. It is closed once the last counted sender is closed.
type queue struct {
	mu      sync.Mutex
	ready   *sync.Cond
	items   []Event
	senders int
	rxGone  bool
}

// Sender enqueues events. Each Sender counts as one producer until Close is
// called; the channel closes when every producer is closed.
type Sender struct {
	q      *queue
	closed atomic.Bool
}

// WeakSender refers to the channel without keeping it open. It has to be
// upgraded to a Sender to enqueue anything.
type WeakSender struct {
	q *queue
}

// Receiver is the single consumer side of the channel.
type Receiver struct {
	q *queue
}

// New returns a channel with one open Sender.
func New() (*Sender, *Receiver) {
	q := &queue{senders: 1}
	q.ready = sync.NewCond(&q.mu)
	return &Sender{q: q}, &Receiver{q: q}
}

// Send enqueues ev without blocking.
func (s *Sender) Send(ev Event) error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.q.mu.Lock()
	defer s.q.mu.Unlock()

	if s.q.rxGone {
		return ErrClosed
	}
	s.q.items = append(s.q.items, ev)
	s.q.ready.Signal()
	return nil
}

// Closed reports whether Close has been called on this Sender.
func (s *Sender) Closed() bool {
	return s.closed.Load()
}

// Clone returns an additional producer for the same channel.
func (s *Sender) Clone() (*Sender, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	return s.q.addSender()
}

// Close releases this producer. Closing twice is a no-op.
func (s *Sender) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.q.mu.Lock()
	defer s.q.mu.Unlock()

	s.q.senders--
	if s.q.senders == 0 {
		s.q.ready.Broadcast()
	}
}

// Downgrade returns a non-counting reference to the channel.
func (s *Sender) Downgrade() WeakSender {
	return WeakSender{q: s.q}
}

// Upgrade returns a new counted Sender, or false once every producer has
// been closed.
func (w WeakSender) Upgrade() (*Sender, bool) {
	if w.q == nil {
		return nil, false
	}
	s, err := w.q.addSender()
	return s, err == nil
}

func (q *queue) addSender() (*Sender, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.senders == 0 || q.rxGone {
		return nil, ErrClosed
	}
	q.senders++
	return &Sender{q: q}, nil
}

// Receive blocks until an event is available and returns it in send order.
// It returns false once the channel is closed and drained, or once the
// Receiver has been closed.
func (r *Receiver) Receive() (Event, bool) {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()

	for len(r.q.items) == 0 && r.q.senders > 0 && !r.q.rxGone {
		r.q.ready.Wait()
	}
	if len(r.q.items) == 0 {
		return nil, false
	}

	ev := r.q.items[0]
	r.q.items[0] = nil
	r.q.items = r.q.items[1:]
	return ev, true
}

// Len reports the number of queued events.
func (r *Receiver) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return len(r.q.items)
}

// Close drops the receiving side. Pending events are discarded, further
// sends fail and a blocked Receive returns false.
func (r *Receiver) Close() {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()

	r.q.rxGone = true
	r.q.items = nil
	r.q.ready.Broadcast()
}
