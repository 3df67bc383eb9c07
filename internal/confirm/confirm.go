// Package confirm is the shared two-step deletion flow: a destructive action
// is first requested for a target, then either confirmed or cancelled. Every
// delete path (posts, comments) goes through the same state machine.
package confirm

import "sync"

type Flow struct {
	mu      sync.Mutex
	pending string
	armed   bool
}

// Request arms the flow for the given target id, replacing any earlier
// pending request.
func (f *Flow) Request(id string) {
	f.mu.Lock()
	f.pending = id
	f.armed = true
	f.mu.Unlock()
}

// Confirm resolves a pending request and returns its target. ok is false
// when nothing was pending. The flow returns to idle either way.
func (f *Flow) Confirm() (id string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.armed {
		return "", false
	}
	id = f.pending
	f.pending = ""
	f.armed = false
	return id, true
}

// Cancel discards a pending request. Idle flows are unaffected.
func (f *Flow) Cancel() {
	f.mu.Lock()
	f.pending = ""
	f.armed = false
	f.mu.Unlock()
}

// Pending returns the target awaiting confirmation, if any.
func (f *Flow) Pending() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending, f.armed
}
