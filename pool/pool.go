// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pool provides a fixed set of worker goroutines fed by a
// lock-free job queue.
//
// It is the default executor for loop.RunInExecutor: jobs that must run
// off the loop's dispatch goroutine (for example waking goroutines parked
// on a duoq thread-side condition) are submitted here.
//
//	p := pool.New(4, 256)
//	defer p.Close()
//	_ = p.Submit(func() { /* runs on a worker */ })
package pool

import (
	"errors"
	"sync"

	"code.hybscloud.com/duoq/internal/atomics"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
	"code.hybscloud.com/spin"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("pool: closed")

const (
	// Spin rounds an idle worker performs before parking.
	idleSpins = 64
	// Backoff rounds Submit performs on a full queue before spilling.
	submitRetries = 4
	// Smallest job queue capacity lfq accepts.
	minCapacity = 2
)

// Pool runs submitted jobs on a fixed number of worker goroutines.
//
// When the job queue is full, Submit backs off briefly and then runs the job on
// a dedicated goroutine, so Submit never blocks indefinitely.
type Pool struct {
	jobs lfq.Queue[func()]
	wake chan struct{}
	quit chan struct{}
	wg   sync.WaitGroup

	mu     sync.RWMutex // Submit holds R, Close holds W
	closed bool

	submitted atomics.Int64
	spilled   atomics.Int64
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Submitted int64 // jobs accepted by Submit
	Spilled   int64 // jobs that ran on their own goroutine because the queue was full
}

// New starts a pool with the given worker count and job queue capacity.
// workers < 1 is treated as 1 and capacity < 2 as 2.
func New(workers, capacity int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if capacity < minCapacity {
		capacity = minCapacity
	}
	p := &Pool{
		jobs: newJobQueue(capacity),
		wake: make(chan struct{}, workers),
		quit: make(chan struct{}),
	}
	p.wg.Add(workers)
	for range workers {
		go p.work()
	}
	return p
}

// Submit queues job for execution on a worker.
// Returns ErrClosed if the pool is closed.
func (p *Pool) Submit(job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	p.submitted.Add(1)

	backoff := iox.Backoff{}
	for range submitRetries {
		if p.jobs.Enqueue(&job) == nil {
			p.signal()
			return nil
		}
		backoff.Wait()
	}

	p.spilled.Add(1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		job()
	}()
	return nil
}

// Close stops accepting jobs, runs everything already queued and waits for
// all workers to exit. Close is idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.quit)
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

// Stats returns the current counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Spilled:   p.spilled.Load(),
	}
}

func (p *Pool) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
		// every worker already holds a pending token
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	sw := spin.Wait{}
	idle := 0
	for {
		job, err := p.jobs.Dequeue()
		if err == nil {
			idle = 0
			sw.Reset()
			job()
			continue
		}
		if idle < idleSpins {
			idle++
			sw.Once()
			continue
		}
		idle = 0
		select {
		case <-p.wake:
		case <-p.quit:
			p.drain()
			return
		}
	}
}

// drain runs queued jobs until the queue reports empty. Submit cannot add
// more once quit is closed.
func (p *Pool) drain() {
	for {
		job, err := p.jobs.Dequeue()
		if err != nil {
			return
		}
		job()
	}
}
