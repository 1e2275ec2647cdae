package x11conn

import (
	"sync"
	"time"
)

// eventQueue is the bounded-wait single-consumer queue (C5) used for
// decoded events. A terminal error posted to it is observed by every
// current and future waiter, never lost to a race (§4.4).
type eventQueue struct {
	mu   sync.Mutex
	cond *sync.Cond
	data []Event
	err  error // sticky once set; never cleared
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends an event and wakes one waiter.
func (q *eventQueue) push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return // terminated; no point accumulating further events
	}
	q.data = append(q.data, e)
	q.cond.Signal()
}

// pushError posts a terminal error and wakes every waiter.
func (q *eventQueue) pushError(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err == nil {
		q.err = err
	}
	q.cond.Broadcast()
}

// wait blocks until an event is available or a terminal error has been
// posted. Spurious wakeups are handled by looping on the predicate.
func (q *eventQueue) wait() (Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.data) == 0 {
		if q.err != nil {
			return nil, q.err
		}
		q.cond.Wait()
	}
	e := q.data[0]
	q.data = q.data[1:]
	return e, nil
}

// poll returns an event if one is already queued, without blocking.
func (q *eventQueue) poll() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return nil, false
	}
	e := q.data[0]
	q.data = q.data[1:]
	return e, true
}

// pollError reports a pending terminal error without blocking. Delayed
// protocol errors for fire-and-forget requests are not posted here; those
// go through the sequencer's mailbox (Conn.pollError).
func (q *eventQueue) pollError() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// waitTimeout blocks until an event arrives, a terminal error is posted, or
// the deadline passes, whichever comes first (§4.11). Implemented as a
// bounded predicate wait on the same condition variable as wait(), so a
// timeout never leaves a goroutine parked on q.cond past the deadline.
func (q *eventQueue) waitTimeout(d time.Duration) (Event, bool, error) {
	deadline := time.Now().Add(d)
	timer := time.AfterFunc(d, q.cond.Broadcast)
	defer timer.Stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.data) == 0 && q.err == nil {
		if time.Now().After(deadline) {
			return nil, true, nil
		}
		q.cond.Wait()
	}
	if len(q.data) == 0 {
		return nil, false, q.err
	}
	e := q.data[0]
	q.data = q.data[1:]
	return e, false, nil
}
