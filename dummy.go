// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq

// DummyMetrics is the default MetricsWriter. It records nothing.
type DummyMetrics struct{}

func (DummyMetrics) QueuePut(Domain)        {}
func (DummyMetrics) QueueGet(Domain)        {}
func (DummyMetrics) Notify(_, _ Domain)     {}
func (DummyMetrics) NotifyDrop(_, _ Domain) {}
