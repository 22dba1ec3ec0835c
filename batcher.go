package trellis

import (
	"time"
)

// Pending is shared by every position queued for the same element write
// pass. Done is closed once the pass has run.
type Pending struct {
	done chan struct{}
	at   time.Time
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func resolvedPending(at time.Time) *Pending {
	p := newPending()
	p.resolve(at)
	return p
}

func (p *Pending) resolve(at time.Time) {
	p.at = at
	close(p.done)
}

// Done returns a channel closed after the element write pass.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Time returns the frame time of the write pass. It is zero until Done is
// closed.
func (p *Pending) Time() time.Time { return p.at }

type queuedWrite struct {
	el Element
	p  *Position
}

// Batcher coalesces element writes of many positions into one pass per
// frame. A position is queued at most once per pass.
type Batcher struct {
	frames  FrameSource
	list    []queuedWrite
	spare   []queuedWrite
	pending *Pending

	// lastFlushed is the number of elements written by the last pass.
	lastFlushed int
}

// NewBatcher returns a batcher writing on frames.
func NewBatcher(frames FrameSource) *Batcher {
	return &Batcher{frames: frames}
}

// Add queues p for a write to el on the next frame and returns the pending
// pass. Adding before the pass runs returns the same Pending.
func (b *Batcher) Add(el Element, p *Position) *Pending {
	b.list = append(b.list, queuedWrite{el: el, p: p})
	p.queued = true

	if b.pending == nil {
		b.pending = newPending()
		b.frames.RequestFrame(b.flush)
	}
	return b.pending
}

// Len returns the number of queued writes.
func (b *Batcher) Len() int { return len(b.list) }

func (b *Batcher) flush(now time.Time) {
	pending := b.pending
	b.pending = nil

	// Writes queued by subscribers during the pass go to the next pass.
	batch := b.list
	b.list = b.spare[:0]

	written := 0
	for i := range batch {
		q := batch[i]
		batch[i] = queuedWrite{}
		q.p.queued = false
		if !q.el.IsConnected() {
			continue
		}
		q.p.writeElement(q.el)
		written++
	}
	b.spare = batch[:0]
	b.lastFlushed = written

	if pending != nil {
		pending.resolve(now)
	}
}

// Immediate writes p to el without waiting for a frame.
func (b *Batcher) Immediate(el Element, p *Position) {
	p.writeElement(el)
}
