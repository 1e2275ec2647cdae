package clipboard

import (
	"sync"
	"time"

	x11 "x11conn"
)

// transferKey identifies one outstanding selection read (§3 "Transfer
// state").
type transferKey struct {
	selection x11.Atom
	target    x11.Atom
}

// transferState is the per-outstanding-read record: accumulated bytes, the
// observed format atom, a completion flag, and the condvar callers block
// on (§3). actualType and incrPending are not written by the current
// receive path: handleSelectionNotify detects the INCR type from the reply
// property itself and runs the chunked receive inline (§4.10, Open
// Question 3).
type transferState struct {
	mu   sync.Mutex
	cond *sync.Cond

	data        []byte
	actualType  x11.Atom
	completed   bool
	failed      bool
	incrPending bool
}

func newTransferState() *transferState {
	t := &transferState{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *transferState) complete(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.completed {
		return
	}
	t.data = data
	t.completed = true
	t.cond.Broadcast()
}

func (t *transferState) fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.completed {
		return
	}
	t.failed = true
	t.completed = true
	t.cond.Broadcast()
}

// waitTimeout blocks until the transfer completes or d elapses (§4.11,
// "transfer 5s"), using the same AfterFunc-driven bounded-wait pattern the
// connection's event queue uses, so no goroutine is left parked on the
// condvar past the deadline.
func (t *transferState) waitTimeout(d time.Duration) ([]byte, error) {
	deadline := time.Now().Add(d)
	timer := time.AfterFunc(d, t.cond.Broadcast)
	defer timer.Stop()

	t.mu.Lock()
	defer t.mu.Unlock()
	for !t.completed {
		if time.Now().After(deadline) {
			return nil, x11.ErrSelectionTimeout
		}
		t.cond.Wait()
	}
	if t.failed {
		return nil, x11.ErrNoSelectionData
	}
	return t.data, nil
}

// transferTable is the connection-wide map of active transfers, under a
// single mutex (§5 "Per-transfer state — single mutex per active
// (selection, target)" refers to each transferState's own mutex; this
// table's mutex only guards the map itself).
type transferTable struct {
	mu    sync.Mutex
	byKey map[transferKey]*transferState
}

func newTransferTable() *transferTable {
	return &transferTable{byKey: make(map[transferKey]*transferState)}
}

func (tt *transferTable) register(key transferKey) *transferState {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	t := newTransferState()
	tt.byKey[key] = t
	return t
}

func (tt *transferTable) lookup(key transferKey) (*transferState, bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	t, ok := tt.byKey[key]
	return t, ok
}

// remove deletes key's entry; called by the reader that observes the
// transfer's completion (§5).
func (tt *transferTable) remove(key transferKey) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	delete(tt.byKey, key)
}
