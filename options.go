// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq

import (
	"cmp"
	"math"
	"time"
)

// NoTimeout passed to PutWait or GetWait waits without a deadline.
const NoTimeout time.Duration = math.MaxInt64

// Options configures queue creation.
type Options struct {
	// Capacity; <= 0 means unbounded
	maxsize int

	order Order

	logger  Logger
	metrics MetricsWriter
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// Bounded FIFO queue
//	q := duoq.Build[Job](duoq.New(128))
//
//	// Unbounded LIFO queue with a logger
//	q := duoq.Build[Job](duoq.New(0).Lifo().Logger(log.Default()))
//
//	// Priority queue over a custom ordering
//	q := duoq.BuildPriority(duoq.New(64), func(a, b Job) bool {
//	    return a.Deadline.Before(b.Deadline)
//	})
type Builder struct {
	opts Options
}

// New creates a queue builder with the given capacity.
// A maxsize of 0 or less builds an unbounded queue.
func New(maxsize int) *Builder {
	return &Builder{opts: Options{maxsize: maxsize}}
}

// Lifo selects most-recent-first extraction.
func (b *Builder) Lifo() *Builder {
	b.opts.order = LIFO
	return b
}

// Logger sets the logger for dropped cross-domain notifications.
func (b *Builder) Logger(l Logger) *Builder {
	b.opts.logger = l
	return b
}

// Metrics sets the metrics writer. The default is DummyMetrics.
func (b *Builder) Metrics(m MetricsWriter) *Builder {
	b.opts.metrics = m
	return b
}

// Build creates a FIFO queue, or a LIFO queue if Lifo was called.
func Build[T any](b *Builder) *Queue[T] {
	return newQueue[T](b.opts, nil)
}

// BuildPriority creates a min-priority queue ordered by less.
// Items that compare equal are returned in insertion order.
//
// Panics if less is nil or the builder is configured with Lifo().
func BuildPriority[T any](b *Builder, less func(a, b T) bool) *Queue[T] {
	if less == nil {
		panic("duoq: BuildPriority requires a less function")
	}
	if b.opts.order == LIFO {
		panic("duoq: BuildPriority conflicts with Lifo()")
	}
	opts := b.opts
	opts.order = Priority
	return newQueue(opts, less)
}

// NewQueue creates a FIFO queue. maxsize <= 0 means unbounded.
func NewQueue[T any](maxsize int) *Queue[T] {
	return Build[T](New(maxsize))
}

// NewLifoQueue creates a LIFO queue. maxsize <= 0 means unbounded.
func NewLifoQueue[T any](maxsize int) *Queue[T] {
	return Build[T](New(maxsize).Lifo())
}

// NewPriorityQueue creates a queue that returns the smallest item first.
func NewPriorityQueue[T cmp.Ordered](maxsize int) *Queue[T] {
	return BuildPriority(New(maxsize), cmp.Less[T])
}

// NewPriorityQueueFunc creates a queue that returns the item ordered first
// by less. Panics if less is nil.
func NewPriorityQueueFunc[T any](maxsize int, less func(a, b T) bool) *Queue[T] {
	return BuildPriority(New(maxsize), less)
}
