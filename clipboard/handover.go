package clipboard

import (
	"sync"
	"time"
)

// handoverState tracks the clipboard-manager handover performed when a
// Clipboard handle is closed (§4.10 "Handover on drop").
type handoverState int

const (
	handoverIdle handoverState = iota
	handoverInProgress
	handoverCompleted
	handoverFailed
)

// handover coordinates the two independent completion signals the ICCCM
// handover protocol produces (§4.10 Open Question 4): a SelectionRequest
// directed at us (the manager asking for the data, "written"), and a
// SelectionNotify on CLIPBOARD_MANAGER (the manager acknowledging,
// "notified"). Either a single correct SelectionNotify with a non-None
// property, or the written&&notified pair, completes it.
type handover struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state handoverState

	written  bool
	notified bool
}

func newHandover() *handover {
	h := &handover{}
	h.cond = sync.NewCond(&h.mu)
	return h
}

func (h *handover) begin() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = handoverInProgress
	h.written = false
	h.notified = false
}

// observeWritten records that the manager issued a SelectionRequest
// against us, i.e. it is pulling the data to save.
func (h *handover) observeWritten() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != handoverInProgress {
		return
	}
	h.written = true
	h.maybeComplete()
}

// observeNotified records a SelectionNotify on CLIPBOARD_MANAGER. property
// non-zero also satisfies the ICCCM-correct completion condition on its
// own, independent of written.
func (h *handover) observeNotified(propertyNonZero bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != handoverInProgress {
		return
	}
	h.notified = true
	if propertyNonZero {
		h.state = handoverCompleted
		h.cond.Broadcast()
		return
	}
	h.maybeComplete()
}

// maybeComplete must be called with mu held.
func (h *handover) maybeComplete() {
	if h.written && h.notified {
		h.state = handoverCompleted
		h.cond.Broadcast()
	}
}

// waitTimeout blocks up to d (§4.11, "handover 500ms") for the handover to
// reach a terminal state, reporting whether it succeeded.
func (h *handover) waitTimeout(d time.Duration) bool {
	deadline := time.Now().Add(d)
	timer := time.AfterFunc(d, h.cond.Broadcast)
	defer timer.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()
	for h.state == handoverInProgress {
		if time.Now().After(deadline) {
			return false
		}
		h.cond.Wait()
	}
	return h.state == handoverCompleted
}
