package clipboard

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	x11 "x11conn"
)

// ClipboardData is one target/value pair a caller offers on Write (§4.10
// "Write path").
type ClipboardData struct {
	Target x11.Atom
	Data   []byte
}

// Clipboard is the selection/clipboard core (C11): an internal window
// used as both owner and requestor, a background event thread, a
// selection cache, and the transfer/handover state machines built on top
// of it.
type Clipboard struct {
	conn  *x11.Conn
	win   x11.Window
	winID uint32
	atoms *protocolAtoms

	selfProperty x11.Atom

	cache     *selectionCache
	transfers *transferTable
	handoverM *handover

	ownedMu sync.Mutex
	owned   map[x11.Atom]bool

	selectionTimeout   time.Duration
	handoverTimeout    time.Duration
	pollInterval       time.Duration
	incrChunkBytes     int
	incrThresholdBytes int

	running   int32
	stopCh    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Options configures Open. The zero value matches the spec's defaults (5s
// transfer timeout, 500ms handover timeout, 4 KiB INCR chunks, 64 KiB INCR
// threshold).
type Options struct {
	SelectionTimeout time.Duration
	HandoverTimeout  time.Duration
	// IncrChunkBytes is the size of each INCR chunk sent on the write
	// path. Zero means incrChunkBytesDefault.
	IncrChunkBytes int
	// IncrThresholdBytes is the size above which a selection value is
	// sent via INCR instead of a single ChangeProperty. Zero means
	// incrThresholdBytesDefault.
	IncrThresholdBytes int
}

func (o Options) withDefaults() Options {
	if o.SelectionTimeout == 0 {
		o.SelectionTimeout = 5 * time.Second
	}
	if o.HandoverTimeout == 0 {
		o.HandoverTimeout = 500 * time.Millisecond
	}
	if o.IncrChunkBytes == 0 {
		o.IncrChunkBytes = incrChunkBytesDefault
	}
	if o.IncrThresholdBytes == 0 {
		o.IncrThresholdBytes = incrThresholdBytesDefault
	}
	return o
}

// Open creates the internal window, pre-interns every protocol/format
// atom, and starts the background event thread (§4.10 "Identity", "Event
// thread").
func Open(conn *x11.Conn, opts Options) (*Clipboard, error) {
	opts = opts.withDefaults()

	atoms, err := internProtocolAtoms(conn)
	if err != nil {
		return nil, fmt.Errorf("x11conn/clipboard: intern protocol atoms: %w", err)
	}
	selfProperty, err := conn.InternAtom("X11CONN_SELECTION_TRANSFER", false)
	if err != nil {
		return nil, fmt.Errorf("x11conn/clipboard: intern transfer property atom: %w", err)
	}

	mask := x11.EventMaskPropertyChange
	win, err := conn.CreateWindow(conn.DefaultRootWindow(), 0, 0, 1, 1, 0,
		uint8(x11.ClassCopyFromParent), x11.ClassInputOutput, uint32(x11.ClassCopyFromParent),
		x11.WindowAttributes{EventMask: &mask})
	if err != nil {
		return nil, fmt.Errorf("x11conn/clipboard: create selection window: %w", err)
	}

	cb := &Clipboard{
		conn:               conn,
		win:                conn.WindowFromID(win),
		winID:              win,
		atoms:              atoms,
		selfProperty:       selfProperty,
		cache:              newSelectionCache(),
		transfers:          newTransferTable(),
		handoverM:          newHandover(),
		owned:              make(map[x11.Atom]bool),
		selectionTimeout:   opts.SelectionTimeout,
		handoverTimeout:    opts.HandoverTimeout,
		pollInterval:       200 * time.Millisecond,
		incrChunkBytes:     opts.IncrChunkBytes,
		incrThresholdBytes: opts.IncrThresholdBytes,
		stopCh:             make(chan struct{}),
	}
	atomic.StoreInt32(&cb.running, 1)

	cb.wg.Add(1)
	go cb.eventLoop()
	return cb, nil
}

func (cb *Clipboard) isRunning() bool {
	return atomic.LoadInt32(&cb.running) == 1
}

// eventLoop is the dedicated thread that pulls events and drives the
// state machine (§4.10 "Event thread"): only this goroutine calls
// NextEvent/NextEventTimeout against the underlying connection.
func (cb *Clipboard) eventLoop() {
	defer cb.wg.Done()
	for {
		select {
		case <-cb.stopCh:
			return
		default:
		}
		ev, timedOut, err := cb.conn.NextEventTimeout(cb.pollInterval)
		if err != nil {
			atomic.StoreInt32(&cb.running, 0)
			return
		}
		if timedOut {
			continue
		}
		cb.dispatch(ev)
	}
}

func (cb *Clipboard) dispatch(ev x11.Event) {
	switch e := ev.(type) {
	case x11.SelectionRequestEvent:
		cb.handleSelectionRequest(e)
	case x11.SelectionNotifyEvent:
		cb.handleSelectionNotify(e)
	case x11.SelectionClearEvent:
		cb.handleSelectionClear(e)
	}
}

// handleSelectionRequest answers a peer asking us for data (§4.10).
func (cb *Clipboard) handleSelectionRequest(e x11.SelectionRequestEvent) {
	property := e.Property
	if property == x11.AtomNone {
		property = e.Target
	}
	requestorWin := cb.conn.WindowFromID(e.Requestor)

	if e.Target == cb.atoms.Targets {
		cached := cb.cache.targetsFor(e.Selection)
		full := append([]x11.Atom{cb.atoms.Targets, cb.atoms.Timestamp, cb.atoms.Multiple}, cached...)
		vals := make([]uint32, len(full))
		for i, a := range full {
			vals[i] = uint32(a)
		}
		data := cb.conn.EncodeUint32Array(vals)
		err := requestorWin.ChangeProperty(property, x11.AtomAtom, 32, x11.PropModeReplace, data, uint32(len(vals)))
		if err != nil {
			property = x11.AtomNone
		}
		cb.sendSelectionNotify(e, property)
		cb.handoverM.observeWritten()
		return
	}

	blob, ok := cb.cache.get(e.Selection, e.Target)
	if !ok {
		cb.sendSelectionNotify(e, x11.AtomNone)
		cb.handoverM.observeWritten()
		return
	}

	if len(blob) <= cb.incrThresholdBytes {
		if err := requestorWin.ChangeProperty(property, e.Target, 8, x11.PropModeReplace, blob, uint32(len(blob))); err != nil {
			cb.sendSelectionNotify(e, x11.AtomNone)
			cb.handoverM.observeWritten()
			return
		}
		cb.sendSelectionNotify(e, property)
		cb.handoverM.observeWritten()
		return
	}

	cb.sendIncr(e, requestorWin, property, blob)
	cb.handoverM.observeWritten()
}

// sendIncr drives the INCR sender side (§4.10, Open Question 2): it
// subscribes to PropertyNotify on the requestor's window (permitted for
// any window, not just ones we own), announces the size via the INCR
// pseudo-type, then waits for the requestor to delete the property before
// writing each subsequent chunk.
func (cb *Clipboard) sendIncr(e x11.SelectionRequestEvent, requestorWin x11.Window, property x11.Atom, data []byte) {
	watchMask := x11.EventMaskPropertyChange
	_ = cb.conn.ChangeWindowAttributes(e.Requestor, x11.WindowAttributes{EventMask: &watchMask})

	sizeWord := cb.conn.EncodeUint32Array([]uint32{uint32(len(data))})
	if err := requestorWin.ChangeProperty(property, cb.atoms.Incr, 32, x11.PropModeReplace, sizeWord, 1); err != nil {
		cb.sendSelectionNotify(e, x11.AtomNone)
		return
	}
	cb.sendSelectionNotify(e, property)

	for _, chunk := range chunkData(data, cb.incrChunkBytes) {
		if err := cb.waitPropertyState(e.Requestor, property, x11.PropertyDeleted); err != nil {
			return
		}
		if err := requestorWin.ChangeProperty(property, e.Target, 8, x11.PropModeReplace, chunk, uint32(len(chunk))); err != nil {
			return
		}
	}
	if err := cb.waitPropertyState(e.Requestor, property, x11.PropertyDeleted); err == nil {
		requestorWin.ChangeProperty(property, e.Target, 8, x11.PropModeReplace, nil, 0)
	}
}

// waitPropertyState pulls further events directly (we are already inside
// the event-thread's dispatch call), dispatching anything that isn't the
// awaited PropertyNotify normally so no event is dropped, per §5 "the
// clipboard event thread never issues a blocking read on the X stream
// that waits on another clipboard operation" — this wait is bounded, not
// an indefinite block on a foreign operation.
func (cb *Clipboard) waitPropertyState(window uint32, property x11.Atom, state uint8) error {
	deadline := time.Now().Add(cb.selectionTimeout)
	for time.Now().Before(deadline) {
		ev, timedOut, err := cb.conn.NextEventTimeout(cb.pollInterval)
		if err != nil {
			return err
		}
		if timedOut {
			continue
		}
		if pn, ok := ev.(x11.PropertyNotifyEvent); ok && pn.Window == window && pn.Atom == property && pn.State == state {
			return nil
		}
		cb.dispatch(ev)
	}
	return x11.ErrSelectionTimeout
}

// handleSelectionNotify completes a read we initiated (§4.10).
func (cb *Clipboard) handleSelectionNotify(e x11.SelectionNotifyEvent) {
	if e.Selection == cb.atoms.ClipboardManager {
		cb.handoverM.observeNotified(e.Property != x11.AtomNone)
		return
	}

	key := transferKey{e.Selection, e.Target}
	t, ok := cb.transfers.lookup(key)
	if !ok {
		return
	}
	defer cb.transfers.remove(key)

	if e.Property == x11.AtomNone {
		t.fail()
		return
	}

	reply, err := cb.win.GetProperty(e.Property, x11.AtomAny, true, 0, 0x7fffffff)
	if err != nil {
		t.fail()
		return
	}

	if reply.Type == cb.atoms.Incr {
		state := &incrReceiveState{}
		for {
			if err := cb.waitPropertyState(cb.winID, e.Property, x11.PropertyNewValue); err != nil {
				t.fail()
				return
			}
			chunkReply, err := cb.win.GetProperty(e.Property, x11.AtomAny, true, 0, 0x7fffffff)
			if err != nil {
				t.fail()
				return
			}
			if done := state.append(chunkReply.Value); done {
				t.complete(state.buf)
				return
			}
		}
	}

	t.complete(reply.Value)
}

// handleSelectionClear handles ownership loss (§4.10).
func (cb *Clipboard) handleSelectionClear(e x11.SelectionClearEvent) {
	cb.cache.clear(e.Selection)
	cb.ownedMu.Lock()
	delete(cb.owned, e.Selection)
	cb.ownedMu.Unlock()
}

func (cb *Clipboard) sendSelectionNotify(e x11.SelectionRequestEvent, property x11.Atom) {
	_ = cb.conn.SendSelectionNotify(e.Requestor, e.Time, e.Selection, e.Target, property)
}

func (cb *Clipboard) isOwner(selection x11.Atom) bool {
	cb.ownedMu.Lock()
	defer cb.ownedMu.Unlock()
	return cb.owned[selection]
}

// Read implements the caller-side read path (§4.10 "Read path").
func (cb *Clipboard) Read(selection, target x11.Atom) ([]byte, error) {
	if !cb.isRunning() {
		return nil, x11.ErrServiceStopped
	}
	if cb.isOwner(selection) {
		if data, ok := cb.cache.get(selection, target); ok {
			return data, nil
		}
		return nil, x11.ErrNoSelectionData
	}

	key := transferKey{selection, target}
	t := cb.transfers.register(key)
	if err := cb.conn.ConvertSelection(cb.winID, selection, target, cb.selfProperty, x11.TimeCurrentTime); err != nil {
		cb.transfers.remove(key)
		return nil, err
	}
	data, err := t.waitTimeout(cb.selectionTimeout)
	cb.transfers.remove(key)
	if err != nil {
		return nil, err
	}
	cb.cache.put(selection, target, data)
	return data, nil
}

// Write implements the caller-side write path (§4.10 "Write path").
func (cb *Clipboard) Write(items []ClipboardData, selection x11.Atom) error {
	if !cb.isRunning() {
		return x11.ErrServiceStopped
	}
	if err := cb.conn.SetSelectionOwner(cb.winID, selection, x11.TimeCurrentTime); err != nil {
		return err
	}
	cb.ownedMu.Lock()
	cb.owned[selection] = true
	cb.ownedMu.Unlock()

	cb.cache.clear(selection)
	for _, item := range items {
		cb.cache.put(selection, item.Target, item.Data)
	}
	return nil
}

// Close performs the clipboard-manager handover if we currently own
// CLIPBOARD with non-empty contents, then stops the event thread (§4.10
// "Handover on drop").
func (cb *Clipboard) Close() error {
	var err error
	cb.closeOnce.Do(func() {
		err = cb.handoverOnClose()
		close(cb.stopCh)
		cb.wg.Wait()
		atomic.StoreInt32(&cb.running, 0)
		destroyErr := cb.win.Destroy()
		if err == nil {
			err = destroyErr
		}
	})
	return err
}

func (cb *Clipboard) handoverOnClose() error {
	if !cb.isOwner(cb.atoms.Clipboard) {
		return nil
	}
	if cb.cache.isEmpty(cb.atoms.Clipboard) {
		return nil
	}
	managerOwner, err := cb.conn.GetSelectionOwner(cb.atoms.ClipboardManager)
	if err != nil || managerOwner == 0 {
		return nil
	}

	cb.handoverM.begin()
	if err := cb.conn.ConvertSelection(cb.winID, cb.atoms.ClipboardManager, cb.atoms.SaveTargets, cb.selfProperty, x11.TimeCurrentTime); err != nil {
		return fmt.Errorf("x11conn/clipboard: request handover: %w", err)
	}
	if !cb.handoverM.waitTimeout(cb.handoverTimeout) {
		return x11.ErrHandoverFailed
	}
	return nil
}
