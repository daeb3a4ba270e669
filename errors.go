// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
// [ErrFull] and [ErrEmpty] wrap it, so [IsWouldBlock] holds for both.
var ErrWouldBlock = iox.ErrWouldBlock

var (
	// ErrFull is returned by a non-blocking or timed-out put on a full
	// bounded queue. It is never returned by an untimed wait.
	//
	// Example:
	//
	//	backoff := iox.Backoff{}
	//	for {
	//	    err := q.Blocking().PutNowait(item)
	//	    if err == nil {
	//	        break
	//	    }
	//	    if duoq.IsWouldBlock(err) {
	//	        backoff.Wait()
	//	        continue
	//	    }
	//	    return err
	//	}
	ErrFull = fmt.Errorf("duoq: queue full: %w", iox.ErrWouldBlock)

	// ErrEmpty is returned by a non-blocking or timed-out get on an empty
	// queue.
	ErrEmpty = fmt.Errorf("duoq: queue empty: %w", iox.ErrWouldBlock)

	// ErrClosed is returned by every put, get, task-done and join once Close
	// has been called, including waits that were blocked when Close ran.
	ErrClosed = errors.New("duoq: operation on closed queue")

	// ErrTooManyCompletions is returned by TaskDone when it is called more
	// times than items were put.
	ErrTooManyCompletions = errors.New("duoq: TaskDone called too many times")

	// ErrInvalidTimeout is returned by a blocking call given a negative timeout.
	ErrInvalidTimeout = errors.New("duoq: timeout must be non-negative")

	// ErrWrongLoop is returned when the suspending side is used from a loop
	// other than the one it was first used from.
	ErrWrongLoop = errors.New("duoq: queue is bound to a different loop")

	// ErrNotClosing is returned by WaitClosed called before Close.
	ErrNotClosing = errors.New("duoq: WaitClosed on a queue that is not closing")
)

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
