// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq

import (
	"time"

	"code.hybscloud.com/duoq/loop"
)

// Domain names the execution domain an operation ran in.
type Domain uint8

const (
	// Thread is any goroutine calling the blocking side.
	Thread Domain = iota
	// Task is a loop.Task calling the suspending side.
	Task
)

func (d Domain) String() string {
	switch d {
	case Thread:
		return "thread"
	case Task:
		return "task"
	default:
		return "unknown"
	}
}

// Logger prints verbose messages. *log.Logger satisfies it.
type Logger = loop.Logger

// MetricsWriter observes queue traffic.
//
// Methods are called with the queue's mutex held and must not block or call
// back into the queue.
type MetricsWriter interface {
	// QueuePut registers a committed put from domain d.
	QueuePut(d Domain)
	// QueueGet registers a committed get from domain d.
	QueueGet(d Domain)
	// Notify registers a wakeup scheduled from one domain into another.
	// from == to for notifier tasks spawned by the non-blocking task side.
	Notify(from, to Domain)
	// NotifyDrop registers a wakeup that could not be submitted.
	NotifyDrop(from, to Domain)
}

// BaseQueue is the query and completion surface shared by both sides.
//
// Qsize, Empty and Full are point-in-time snapshots. They may be stale by the
// time the caller acts on them.
type BaseQueue interface {
	// Maxsize returns the capacity; <= 0 means unbounded.
	Maxsize() int
	// Closed reports whether Close was called and every in-flight
	// cross-domain notification has retired.
	Closed() bool
	// TaskDone acknowledges one item obtained by a get.
	TaskDone() error
	Qsize() int
	UnfinishedTasks() int
	Empty() bool
	Full() bool
}

// ThreadQueue is the blocking side, for goroutines.
type ThreadQueue[T any] interface {
	BaseQueue
	Put(item T) error
	PutTimeout(item T, timeout time.Duration) error
	PutNowait(item T) error
	Get() (T, error)
	GetTimeout(timeout time.Duration) (T, error)
	GetNowait() (T, error)
	Join() error
}

// TaskQueue is the suspending side, for tasks on one loop.
type TaskQueue[T any] interface {
	BaseQueue
	Put(t *loop.Task, item T) error
	PutNowait(t *loop.Task, item T) error
	Get(t *loop.Task) (T, error)
	GetNowait(t *loop.Task) (T, error)
	Join(t *loop.Task) error
}

var (
	_ ThreadQueue[int] = (*BlockingQueue[int])(nil)
	_ TaskQueue[int]   = (*SuspendingQueue[int])(nil)
)
