package booking

import "sync"

// State is the snapshot a screen observes for one stage: whether a request
// is in flight plus the most recent result. Busy is orthogonal to the
// result, it may be true while a previous result is still displayed.
// Settled is false until the stage has published its first result.
type State[T any] struct {
	Busy    bool
	Settled bool
	Result  Result[T]
}

// Signal publishes stage state to subscribers. Each subscriber channel
// holds the latest snapshot only: a slow reader sees states coalesced,
// never blocks the publisher. Once closed, publishes are discarded, which
// is what keeps a late-arriving network result from mutating a screen
// that was already torn down.
type Signal[T any] struct {
	mu     sync.Mutex
	state  State[T]
	subs   map[chan State[T]]struct{}
	closed bool
}

func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{subs: make(map[chan State[T]]struct{})}
}

func (s *Signal[T]) SetBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.state.Busy = busy
	s.notify()
}

func (s *Signal[T]) Publish(r Result[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.state.Result = r
	s.state.Settled = true
	s.notify()
}

func (s *Signal[T]) Current() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a new observer. The returned cancel func detaches it.
func (s *Signal[T]) Subscribe() (<-chan State[T], func()) {
	ch := make(chan State[T], 1)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	ch <- s.state
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Close detaches all subscribers and makes further publishes no-ops.
func (s *Signal[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}

// notify is called with s.mu held. Latest-wins: if the subscriber has not
// drained the previous snapshot, it is replaced.
func (s *Signal[T]) notify() {
	for ch := range s.subs {
		select {
		case ch <- s.state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s.state
		}
	}
}
