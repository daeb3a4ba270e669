// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

// Lock is a mutual-exclusion lock for tasks. The zero Lock is unlocked.
//
// Lock is loop-confined: call it only from task bodies or loop callbacks.
// Ownership passes to waiters in FIFO order. A Lock is not tied to the task
// that locked it; any task may Unlock.
type Lock struct {
	locked  bool
	waiters []*Future
}

// Lock acquires m, suspending t while another task holds it.
// Returns ErrCancelled, without holding m, if t is cancelled while waiting.
func (m *Lock) Lock(t *Task) error {
	if !m.locked && !m.queued() {
		m.locked = true
		return nil
	}

	f := t.loop.NewFuture()
	m.waiters = append(m.waiters, f)
	err := t.Await(f)
	if err == nil {
		return nil
	}

	m.remove(f)
	if f.IsDone() && !f.Cancelled() {
		// Ownership was handed over before the cancel landed.
		m.Unlock()
	}
	return err
}

// TryLock acquires m if it is free and nobody is queued.
func (m *Lock) TryLock() bool {
	if m.locked || m.queued() {
		return false
	}
	m.locked = true
	return true
}

// Unlock releases m, handing it to the first live waiter if any.
// Panics if m is not locked.
func (m *Lock) Unlock() {
	if !m.locked {
		panic("loop: unlock of unlocked Lock")
	}
	for len(m.waiters) > 0 {
		f := m.waiters[0]
		m.waiters[0] = nil
		m.waiters = m.waiters[1:]
		if f.Resolve(nil) {
			return
		}
	}
	m.locked = false
}

// Locked reports whether m is held.
func (m *Lock) Locked() bool {
	return m.locked
}

func (m *Lock) queued() bool {
	for _, f := range m.waiters {
		if !f.IsDone() {
			return true
		}
	}
	return false
}

func (m *Lock) remove(f *Future) {
	m.waiters = removeFuture(m.waiters, f)
}

func removeFuture(list []*Future, f *Future) []*Future {
	for i, w := range list {
		if w == f {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			return list[:len(list)-1]
		}
	}
	return list
}
