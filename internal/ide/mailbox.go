package ide

import "sync"

// DefaultMailboxSize is the number of notifications buffered before Post
// blocks.
const DefaultMailboxSize = 1024

// Mailbox carries closures from background goroutines to the UI goroutine.
// Closures run in the order they were posted.
type Mailbox struct {
	ch        chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewMailbox returns a mailbox buffering size closures
func NewMailbox(size int) *Mailbox {
	if size <= 0 {
		size = DefaultMailboxSize
	}
	return &Mailbox{ch: make(chan func(), size), done: make(chan struct{})}
}

// Post queues fn for the UI goroutine. It blocks while the buffer is full
// and returns false once the mailbox is closed.
func (m *Mailbox) Post(fn func()) bool {
	select {
	case <-m.done:
		return false
	default:
	}
	select {
	case m.ch <- fn:
		return true
	case <-m.done:
		return false
	}
}

// C returns the channel front ends receive closures from
func (m *Mailbox) C() <-chan func() {
	return m.ch
}

// Done is closed when the mailbox is closed
func (m *Mailbox) Done() <-chan struct{} {
	return m.done
}

// Drain runs the closures already queued without waiting for more and
// returns how many ran. It must be called on the UI goroutine.
func (m *Mailbox) Drain() int {
	n := 0
	for {
		select {
		case fn := <-m.ch:
			fn()
			n++
		default:
			return n
		}
	}
}

// Close makes later posts fail. Queued closures can still be drained.
func (m *Mailbox) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}
