// Package notify provides the change signal a session uses to tell
// consumers that some answer in its response tree has changed.
//
// A Notifier is owned by exactly one session and injected into the
// response tree it builds. Consumers register through Subscribe and must
// treat every callback as "recompute", never branching on the counter.
package notify

// Notifier is a monotonically increasing change counter with synchronous
// subscribers. It is not safe for concurrent use; the owning session
// serialises access.
type Notifier struct {
	version uint64
	nextID  int
	subs    []subscription
}

type subscription struct {
	id int
	fn func()
}

// New returns a notifier at version zero.
func New() *Notifier {
	return &Notifier{}
}

// Version returns the number of changes signalled so far.
func (n *Notifier) Version() uint64 {
	return n.version
}

// Bump records a change and calls every subscriber in registration order.
func (n *Notifier) Bump() {
	n.version++
	for _, s := range n.subs {
		s.fn()
	}
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (n *Notifier) Subscribe(fn func()) (cancel func()) {
	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range n.subs {
			if s.id == id {
				n.subs = append(n.subs[:i], n.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns how many callbacks are registered.
func (n *Notifier) Subscribers() int {
	return len(n.subs)
}
