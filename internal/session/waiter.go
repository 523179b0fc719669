package session

// Waiter is a single-slot, edge-triggered signal: Notify is safe to
// call any number of times from any goroutine without blocking, and a
// pending signal coalesces until a consumer reads it off C(). It is
// the primitive the long-poll stream handler blocks on while waiting
// for outbound bytes to become ready, or for the session to close.
type Waiter struct {
	ch chan struct{}
}

// NewWaiter returns a Waiter with no signal pending.
func NewWaiter() *Waiter {
	return &Waiter{ch: make(chan struct{}, 1)}
}

// Notify arms the signal. If one is already pending it is a no-op.
func (w *Waiter) Notify() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// C returns the channel a consumer selects on to observe a signal.
func (w *Waiter) C() <-chan struct{} {
	return w.ch
}
