// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

package pool

import "code.hybscloud.com/lfq"

// newJobQueue returns the CAS-based MPMC queue. Workers and submitters are
// both many, and the sequence variant needs no Drain before Close.
func newJobQueue(capacity int) lfq.Queue[func()] {
	return lfq.NewMPMCSeq[func()](capacity)
}
