// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

import "sync"

// Event is a level-triggered flag tasks can wait on.
// Set, Clear and IsSet are safe from any goroutine. The zero Event is clear.
type Event struct {
	mu      sync.Mutex
	set     bool
	waiters []*Future
}

// Set raises the flag and wakes every waiting task.
func (e *Event) Set() {
	e.mu.Lock()
	if e.set {
		e.mu.Unlock()
		return
	}
	e.set = true
	ws := e.waiters
	e.waiters = nil
	e.mu.Unlock()

	for _, f := range ws {
		f.Resolve(nil)
	}
}

// Clear lowers the flag.
func (e *Event) Clear() {
	e.mu.Lock()
	e.set = false
	e.mu.Unlock()
}

// IsSet reports whether the flag is raised.
func (e *Event) IsSet() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set
}

// Wait suspends t until the flag is raised. Returns at once if it already is.
func (e *Event) Wait(t *Task) error {
	e.mu.Lock()
	if e.set {
		e.mu.Unlock()
		return nil
	}
	f := t.loop.NewFuture()
	e.waiters = append(e.waiters, f)
	e.mu.Unlock()

	err := t.Await(f)
	if err != nil {
		e.mu.Lock()
		e.waiters = removeFuture(e.waiters, f)
		e.mu.Unlock()
	}
	return err
}
