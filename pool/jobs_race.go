// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package pool

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// newJobQueue returns a channel-backed queue under the race detector, which
// cannot see the acquire-release edges lfq publishes job slots with.
func newJobQueue(capacity int) lfq.Queue[func()] {
	return make(chanQueue, capacity)
}

type chanQueue chan func()

func (c chanQueue) Enqueue(job *func()) error {
	select {
	case c <- *job:
		return nil
	default:
		return iox.ErrWouldBlock
	}
}

func (c chanQueue) Dequeue() (func(), error) {
	select {
	case job := <-c:
		return job, nil
	default:
		return nil, iox.ErrWouldBlock
	}
}

func (c chanQueue) Cap() int { return cap(c) }
