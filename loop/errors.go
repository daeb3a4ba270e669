// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package loop

import "errors"

var (
	// ErrCancelled is returned from a suspension point whose task or
	// awaited Future was cancelled.
	ErrCancelled = errors.New("loop: cancelled")

	// ErrClosed is returned when submitting work to a closed loop.
	ErrClosed = errors.New("loop: closed")

	// ErrRunning is returned by Run when the loop is already running and by
	// Close while it runs.
	ErrRunning = errors.New("loop: already running")

	// ErrPanic wraps the value recovered from a panicking task body.
	ErrPanic = errors.New("loop: task panicked")
)
