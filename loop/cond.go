// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

// Cond is a condition variable for tasks, bound to a Lock.
// Cond is loop-confined.
type Cond struct {
	L       *Lock
	waiters []*Future
}

// NewCond returns a Cond using l.
func NewCond(l *Lock) *Cond {
	return &Cond{L: l}
}

// Wait releases c.L, suspends t until notified and reacquires c.L.
// c.L must be held by the caller.
//
// Wait returns holding c.L on every path. If t is cancelled, Wait still
// reacquires c.L and then returns ErrCancelled; a notification consumed by
// a cancelled waiter is passed to the next one.
func (c *Cond) Wait(t *Task) error {
	if !c.L.locked {
		panic("loop: Cond.Wait on unlocked Lock")
	}

	f := t.loop.NewFuture()
	c.waiters = append(c.waiters, f)
	c.L.Unlock()

	err := t.Await(f)
	if err != nil {
		c.waiters = removeFuture(c.waiters, f)
	}

	for {
		lerr := c.L.Lock(t)
		if lerr == nil {
			break
		}
		if err == nil {
			err = lerr
		}
	}

	if err != nil && f.IsDone() && !f.Cancelled() {
		c.Notify(1)
	}
	return err
}

// Notify wakes up to n waiters. c.L must be held.
func (c *Cond) Notify(n int) {
	if !c.L.locked {
		panic("loop: Cond.Notify on unlocked Lock")
	}
	woken := 0
	for woken < n && len(c.waiters) > 0 {
		f := c.waiters[0]
		c.waiters[0] = nil
		c.waiters = c.waiters[1:]
		if f.Resolve(nil) {
			woken++
		}
	}
}

// NotifyAll wakes every waiter. c.L must be held.
func (c *Cond) NotifyAll() {
	c.Notify(len(c.waiters))
}

// Waiting returns the number of queued waiters.
func (c *Cond) Waiting() int {
	return len(c.waiters)
}
