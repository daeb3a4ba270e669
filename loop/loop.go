// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

import (
	"context"
	"runtime"
	"sync"

	"code.hybscloud.com/duoq/pool"
)

const (
	// Default job queue capacity of the executor a Loop creates for itself.
	defaultExecutorCapacity = 256

	// Cancel rounds Close delivers to tasks that keep suspending.
	maxShutdownRounds = 16
	// Callback batches Close dispatches per round.
	maxShutdownBatches = 1024
)

// Loop is a single-threaded cooperative scheduler.
//
// Callbacks submitted with CallSoonThreadsafe run one at a time on the
// goroutine that called Run. Tasks started with Go run interleaved with
// those callbacks, suspending only at the points listed in the package
// documentation.
type Loop struct {
	mu       sync.Mutex
	ingress  []func()
	closed   bool
	running  bool
	stopping bool

	// one token: ingress may be non-empty
	wake chan struct{}

	// started tasks whose body has not returned
	tasks map[*Task]struct{}

	execOnce sync.Once
	exec     Executor
	ownsExec bool

	logger Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithExecutor sets the executor used by RunInExecutor.
// The loop does not close an executor it did not create.
func WithExecutor(e Executor) Option {
	return func(l *Loop) { l.exec = e }
}

// WithLogger sets the logger for task panics and dropped callbacks.
func WithLogger(lg Logger) Option {
	return func(l *Loop) { l.logger = lg }
}

// New creates a loop. The loop does nothing until Run is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:  make(chan struct{}, 1),
		tasks: make(map[*Task]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CallSoonThreadsafe schedules fn to run on the loop. It never blocks and
// is safe from any goroutine, including task bodies.
// Returns ErrClosed if the loop is closed.
func (l *Loop) CallSoonThreadsafe(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.ingress = append(l.ingress, fn)
	l.mu.Unlock()
	l.signal()
	return nil
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run dispatches callbacks until Stop is called or ctx is done.
//
// After Stop, Run finishes the batch of callbacks it already took and
// returns nil; callbacks submitted later stay queued for the next Run.
// Returns ctx.Err() when ctx ends the run.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	switch {
	case l.closed:
		l.mu.Unlock()
		return ErrClosed
	case l.running:
		l.mu.Unlock()
		return ErrRunning
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.stopping = false
		l.mu.Unlock()
	}()

	var batch []func()
	for {
		// Check-then-sleep: the ingress swap and the stop flag are read under
		// the same lock CallSoonThreadsafe and Stop write under.
		l.mu.Lock()
		batch, l.ingress = l.ingress, batch[:0]
		stop := l.stopping
		l.mu.Unlock()

		for i, fn := range batch {
			fn()
			batch[i] = nil
		}
		if stop {
			return nil
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop asks a running loop to return from Run.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopping = true
	l.mu.Unlock()
	l.signal()
}

// RunTask starts fn as a task, runs the loop until that task is done and
// returns its error. Other tasks are left as they are.
func (l *Loop) RunTask(ctx context.Context, fn func(t *Task) error) error {
	t := l.Go(fn)
	t.OnDone(func(*Future) { l.Stop() })
	for !t.IsDone() {
		if err := l.Run(ctx); err != nil {
			return err
		}
	}
	return t.Err()
}

// Close shuts the loop down. Tasks still suspended are cancelled and
// dispatched until their bodies return, so their Awaits report
// ErrCancelled. After that Close rejects further submissions, drops
// whatever is still queued and closes the executor if the loop created it.
//
// A task that keeps suspending after repeated cancels is abandoned and
// its goroutine stays parked.
// Returns ErrRunning if Run is active.
func (l *Loop) Close() error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrRunning
	}
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.running = true
	l.mu.Unlock()

	l.shutdown()

	l.mu.Lock()
	l.running = false
	l.closed = true
	l.ingress = nil
	l.mu.Unlock()

	l.execOnce.Do(func() {})
	if l.ownsExec {
		if c, ok := l.exec.(interface{ Close() error }); ok {
			return c.Close()
		}
	}
	return nil
}

// shutdown dispatches on the calling goroutine, cancelling every suspended
// task each time the ingress runs dry, until no task is left.
func (l *Loop) shutdown() {
	var batch []func()
	for range maxShutdownRounds {
		for range maxShutdownBatches {
			l.mu.Lock()
			batch, l.ingress = l.ingress, batch[:0]
			l.mu.Unlock()
			if len(batch) == 0 {
				break
			}
			for i, fn := range batch {
				fn()
				batch[i] = nil
			}
		}

		suspended := l.suspended()
		if len(suspended) == 0 {
			return
		}
		for _, t := range suspended {
			t.interrupt()
		}
	}
	if n := len(l.suspended()); n > 0 {
		l.logf("loop: %d tasks still suspended at close", n)
	}
}

func (l *Loop) suspended() []*Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := make([]*Task, 0, len(l.tasks))
	for t := range l.tasks {
		ts = append(ts, t)
	}
	return ts
}

func (l *Loop) track(t *Task) {
	l.mu.Lock()
	l.tasks[t] = struct{}{}
	l.mu.Unlock()
}

func (l *Loop) untrack(t *Task) {
	l.mu.Lock()
	delete(l.tasks, t)
	l.mu.Unlock()
}

// Closed reports whether Close has been called.
func (l *Loop) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Executor returns the executor behind RunInExecutor, creating the default
// pool on first use. Returns nil once the loop is closed without one.
func (l *Loop) Executor() Executor {
	l.execOnce.Do(func() {
		if l.exec != nil || l.Closed() {
			return
		}
		l.exec = pool.New(runtime.GOMAXPROCS(0), defaultExecutorCapacity)
		l.ownsExec = true
	})
	return l.exec
}

func (l *Loop) logf(format string, v ...any) {
	if l.logger != nil {
		l.logger.Printf(format, v...)
	}
}
