// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"code.hybscloud.com/duoq"
	"code.hybscloud.com/duoq/internal/atomics"
	"code.hybscloud.com/duoq/loop"
	"code.hybscloud.com/iox"
)

// counters is the benchmark's MetricsWriter.
type counters struct {
	puts   [2]atomics.Int64
	gets   [2]atomics.Int64
	notify [2][2]atomics.Int64
	drops  [2][2]atomics.Int64
}

func (c *counters) QueuePut(d duoq.Domain)          { c.puts[d].Add(1) }
func (c *counters) QueueGet(d duoq.Domain)          { c.gets[d].Add(1) }
func (c *counters) Notify(from, to duoq.Domain)     { c.notify[from][to].Add(1) }
func (c *counters) NotifyDrop(from, to duoq.Domain) { c.drops[from][to].Add(1) }

// Result is the outcome of one run.
type Result struct {
	Config   Config        `json:"config"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Produced [2]int64      `json:"produced"` // thread, task
	Consumed [2]int64      `json:"consumed"`
	// Notify[from][to]
	Notify     [2][2]int64 `json:"notify"`
	Drops      [2][2]int64 `json:"drops"`
	Throughput float64     `json:"throughput_msgs_sec"`
}

func newBenchQueue(cfg Config, m duoq.MetricsWriter) *duoq.Queue[int] {
	b := duoq.New(cfg.Maxsize).Metrics(m)
	switch cfg.Order {
	case "lifo":
		return duoq.Build[int](b.Lifo())
	case "priority":
		return duoq.BuildPriority(b, func(x, y int) bool { return x < y })
	default:
		return duoq.Build[int](b)
	}
}

// run drives both domains against one queue until cfg.Duration elapses,
// then closes the queue and waits for every worker to observe it.
// tick, if not nil, is called about every 100ms while the run lasts.
func run(ctx context.Context, cfg Config, tick func(elapsed time.Duration)) (Result, error) {
	var m counters
	q := newBenchQueue(cfg, &m)
	l := loop.New()
	defer l.Close()

	var wg sync.WaitGroup
	for p := range cfg.ThreadProducers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			threadProducer(q.Blocking(), p, cfg.Nowait)
		}()
	}
	for range cfg.ThreadConsumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			threadConsumer(q.Blocking())
		}()
	}

	var closed loop.Event
	start := time.Now()
	go func() {
		defer closed.Set()
		timer := time.NewTimer(cfg.Duration)
		defer timer.Stop()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if tick != nil {
					tick(time.Since(start))
				}
			case <-timer.C:
				q.Close()
				return
			case <-ctx.Done():
				q.Close()
				return
			}
		}
	}()

	err := l.RunTask(context.WithoutCancel(ctx), func(t *loop.Task) error {
		var tasks []*loop.Future
		for p := range cfg.TaskProducers {
			tasks = append(tasks, l.Go(func(t *loop.Task) error {
				return taskProducer(t, q.Suspending(), p, cfg.YieldEvery)
			}).Future)
		}
		for range cfg.TaskConsumers {
			tasks = append(tasks, l.Go(func(t *loop.Task) error {
				return taskConsumer(t, q.Suspending(), cfg.YieldEvery)
			}).Future)
		}
		if err := loop.WaitAll(t, tasks...); err != nil {
			return err
		}
		for _, f := range tasks {
			if err := f.Err(); err != nil && !errors.Is(err, duoq.ErrClosed) {
				return err
			}
		}
		if err := closed.Wait(t); err != nil {
			return err
		}
		return q.WaitClosed(t)
	})
	wg.Wait()
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, fmt.Errorf("loop: %w", err)
	}

	res := Result{Config: cfg, Elapsed: elapsed}
	for d := range 2 {
		res.Produced[d] = m.puts[d].Load()
		res.Consumed[d] = m.gets[d].Load()
		for to := range 2 {
			res.Notify[d][to] = m.notify[d][to].Load()
			res.Drops[d][to] = m.drops[d][to].Load()
		}
	}
	res.Throughput = float64(res.Consumed[0]+res.Consumed[1]) / elapsed.Seconds()
	return res, nil
}

func threadProducer(bq *duoq.BlockingQueue[int], id int, nowait bool) {
	backoff := iox.Backoff{}
	for i := id << 32; ; i++ {
		var err error
		if nowait {
			err = bq.PutNowait(i)
			if duoq.IsWouldBlock(err) {
				backoff.Wait()
				continue
			}
			backoff.Reset()
		} else {
			err = bq.Put(i)
		}
		if err != nil {
			return
		}
	}
}

func threadConsumer(bq *duoq.BlockingQueue[int]) {
	for {
		if _, err := bq.Get(); err != nil {
			return
		}
		if err := bq.TaskDone(); err != nil {
			return
		}
	}
}

func taskProducer(t *loop.Task, sq *duoq.SuspendingQueue[int], id, yieldEvery int) error {
	for i := 0; ; i++ {
		if err := sq.Put(t, -(id<<32 + i)); err != nil {
			return err
		}
		if i%yieldEvery == yieldEvery-1 {
			if err := loop.Yield(t); err != nil {
				return err
			}
		}
	}
}

func taskConsumer(t *loop.Task, sq *duoq.SuspendingQueue[int], yieldEvery int) error {
	for i := 0; ; i++ {
		if _, err := sq.Get(t); err != nil {
			return err
		}
		if err := sq.TaskDone(); err != nil {
			return err
		}
		if i%yieldEvery == yieldEvery-1 {
			if err := loop.Yield(t); err != nil {
				return err
			}
		}
	}
}
