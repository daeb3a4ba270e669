// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// Package atomics selects the atomic primitives used across duoq.
//
// Normal builds use [code.hybscloud.com/atomix] directly. Race builds swap
// in sync/atomic wrappers with the same method set, because atomix
// operations appear as regular memory accesses to the race detector and
// the happens-before edges they provide would be reported as races.
package atomics

import "code.hybscloud.com/atomix"

// RaceEnabled is false when the race detector is not active.
const RaceEnabled = false

type (
	Bool  = atomix.Bool
	Int64 = atomix.Int64
)
