// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package atomics

import "sync/atomic"

// RaceEnabled is true when the race detector is active.
const RaceEnabled = true

// Bool mirrors the atomix.Bool methods used by duoq.
type Bool struct{ v atomic.Bool }

func (b *Bool) Load() bool     { return b.v.Load() }
func (b *Bool) Store(val bool) { b.v.Store(val) }

// Int64 mirrors the atomix.Int64 methods used by duoq.
type Int64 struct{ v atomic.Int64 }

func (i *Int64) Load() int64           { return i.v.Load() }
func (i *Int64) Store(val int64)       { i.v.Store(val) }
func (i *Int64) Add(delta int64) int64 { return i.v.Add(delta) }
